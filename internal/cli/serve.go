package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/handlers"
	"github.com/cloudshop/uisuite/internal/sandbox"
)

// ServerDependencies holds all dependencies needed for the sandbox server
type ServerDependencies struct {
	ServerConfig   config.ServerConfig
	Store          *sandbox.Store
	Sessions       handlers.SessionStore
	LoginHandler   http.Handler
	LogoutHandler  http.Handler
	CatalogHandler http.Handler
	SaveHandler    http.Handler
	DeleteHandler  http.Handler
	TrashHandler   http.Handler
	APIHandler     http.Handler
	StaticHandler  http.Handler
}

// NewSandboxDependencies wires the sandbox handlers around one in-memory store
func NewSandboxDependencies(serverConfig config.ServerConfig) (ServerDependencies, error) {
	store := sandbox.NewStore(serverConfig.Email, serverConfig.Password)
	deps := ServerDependencies{
		ServerConfig:  serverConfig,
		Store:         store,
		Sessions:      store,
		LogoutHandler: handlers.NewLogoutHandler(store),
		SaveHandler:   handlers.NewSaveProductHandler(store),
		DeleteHandler: handlers.NewDeleteProductsHandler(store),
		APIHandler:    handlers.NewAPIHandler(store),
		StaticHandler: handlers.NewStaticHandler(),
	}

	loginHandler, err := handlers.NewLoginHandler(store)
	if err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LoginHandler = loginHandler

	catalogHandler, err := handlers.NewCatalogHandler(store, handlers.CatalogOptions{PromoBanner: serverConfig.PromoBanner})
	if err != nil {
		return deps, fmt.Errorf("failed to create catalog handler: %w", err)
	}
	deps.CatalogHandler = catalogHandler

	trashHandler, err := handlers.NewTrashHandler(store)
	if err != nil {
		return deps, fmt.Errorf("failed to create trash handler: %w", err)
	}
	deps.TrashHandler = trashHandler

	return deps, nil
}

// RunServe starts the sandbox server and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// Routes builds the sandbox mux. Catalog screens and the JSON API require a session.
func Routes(deps ServerDependencies) http.Handler {
	protect := func(h http.Handler) http.Handler {
		return handlers.RequireSession(deps.Sessions, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.RedirectHandler(config.CatalogPath, http.StatusFound))
	mux.Handle(config.LoginPath, deps.LoginHandler)
	mux.Handle("/anonymous/logout/", deps.LogoutHandler)
	mux.Handle(config.CatalogPath, protect(deps.CatalogHandler))
	mux.Handle(config.CreatePath, protect(deps.CatalogHandler))
	mux.Handle("/card/catalog/save", protect(deps.SaveHandler))
	mux.Handle("/card/catalog/delete", protect(deps.DeleteHandler))
	mux.Handle(config.TrashPath, protect(deps.TrashHandler))
	mux.Handle("/api/products", protect(deps.APIHandler))
	mux.Handle("/static/", http.StripPrefix("/static/", deps.StaticHandler))
	return mux
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           Routes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Sandbox listening on %s", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
// shutdownTimeout can be passed for testing; use 0 for default 30 seconds
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	// Channel to listen for interrupt or terminate signals
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	}

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("Received signal: %v, shutting down server...", sig)

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		// Force close the server after timeout
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
