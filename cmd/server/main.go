// Package main runs the privacy-blurring detection service over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/edaniels/golog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/sitewarden/svision/inference"
	"github.com/sitewarden/svision/pipeline"
	"github.com/sitewarden/svision/web"
)

var (
	defaultPort = 5000
	logger      = golog.NewDevelopmentLogger("svision_server")
)

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Port        utils.NetPortFlag `flag:"0"`
	ModelServer string            `flag:"model-server,default=http://127.0.0.1:9001,usage=base URL of the model inference server"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Port == 0 {
		argsParsed.Port = utils.NetPortFlag(defaultPort)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debugw("no .env file loaded", "error", err)
	}
	secretKey := os.Getenv("APP_SECRET_KEY")
	if secretKey == "" {
		return errors.New("APP_SECRET_KEY must be set")
	}

	client, err := inference.NewClient(ctx, inference.Config{BaseURL: argsParsed.ModelServer}, logger)
	if err != nil {
		return err
	}

	server := web.NewServer(pipeline.New(client, client, logger), secretKey, logger)
	httpServer, err := utils.NewPossiblySecureHTTPServer(server.Handler(), utils.HTTPServerOptions{
		Addr: fmt.Sprintf(":%d", argsParsed.Port),
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	utils.PanicCapturingGo(func() {
		logger.Infow("serving", "port", int(argsParsed.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	})

	utils.ContextMainReadyFunc(ctx)()
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
