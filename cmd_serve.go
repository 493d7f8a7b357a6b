package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"ducweb/cgi"
	"ducweb/config"
)

// fiberResponse carries a rendered page in a fiber response.
type fiberResponse struct {
	c *fiber.Ctx
}

func (r *fiberResponse) Write(p []byte) (int, error) {
	return r.c.Write(p)
}

func (r *fiberResponse) SetContentType(contentType string) {
	r.c.Set(fiber.HeaderContentType, contentType+"; charset=utf-8")
}

func (r *fiberResponse) Flush() error {
	return nil
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [options]",
		Short: "Serve the HTML report over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load[config.Serve]("serve", configPath(cmd), cmd.Flags())
			if err != nil {
				return err
			}

			handler, err := cgi.NewHandler(cfg.HTML, afero.NewOsFs(), slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, newServeApp(handler), cfg.Listen)
		},
	}
	config.ServeFlags(cmd.Flags())
	return cmd
}

func newServeApp(handler *cgi.Handler) *fiber.App {
	log := slog.Default().With(slog.String("item", "Server"))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error("Request failed", slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		req := cgi.Request{
			Query:      string(c.Request().URI().QueryString()),
			ScriptName: "/",
		}
		if err := handler.Handle(&fiberResponse{c: c}, req); err != nil {
			log.Warn("Render failed", slog.String("query", req.Query), slog.Any("error", err))
			c.Status(fiber.StatusInternalServerError)
		}
		return nil
	})
	return app
}

func serve(ctx context.Context, app *fiber.App, addr string) error {
	log := slog.Default().With(slog.String("item", "Server"))

	errc := make(chan error, 1)
	go func() {
		log.Info("Server starting", slog.String("addr", addr))
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		return app.Shutdown()
	}
}
