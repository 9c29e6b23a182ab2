package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/gorillamux"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/eventbook/api/internal/handlers"
	"github.com/eventbook/api/internal/monitoring"
	"github.com/eventbook/api/internal/transport"
)

type Route struct {
	Path    string
	Method  string
	Handler func(http.ResponseWriter, *http.Request) http.HandlerFunc
}

var Routes []Route

func init() {
	Routes = []Route{
		{"/", "GET", handlers.GetHome},
		{"/api/v1/events", "GET", handlers.GetEventsHandler},
		{"/api/v1/events", "POST", handlers.CreateEventHandler},
		// literal month/client prefixes are registered ahead of the {id}
		// matchers
		{"/api/v1/events/month/{month}", "GET", handlers.GetEventsByMonthHandler},
		{"/api/v1/events/client/{client}", "GET", handlers.GetEventsByClientHandler},
		{"/api/v1/events/{id}", "GET", handlers.GetEventByIDHandler},
		{"/api/v1/events/{id}", "PUT", handlers.UpdateEventHandler},
		{"/api/v1/events/{id}", "PATCH", handlers.PatchEventHandler},
		{"/api/v1/events/{id}", "DELETE", handlers.DeleteEventHandler},
	}
}

type App struct {
	Router *mux.Router
}

func NewApp() *App {
	app := &App{
		Router: mux.NewRouter(),
	}
	app.Router.Use(withRequestID)
	app.Router.Use(withMetrics)
	return app
}

func (app *App) SetupRoutes(routes []Route) {
	for _, route := range routes {
		app.addRoute(route)
	}
	app.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func (app *App) addRoute(route Route) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		route.Handler(w, r).ServeHTTP(w, r)
	}
	app.Router.HandleFunc(route.Path, handler).Methods(route.Method).Name(route.Method + " " + route.Path)
}

func (app *App) SetupNotFoundHandler() {
	app.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Println("Not found", r.RequestURI)
		transport.SendServerRes(w, []byte("Route not found"), http.StatusNotFound, nil)
	})
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		routeLabel := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				routeLabel = tpl
			}
		}
		monitoring.TrackRequest(r.Method, routeLabel, rec.status, time.Since(start))
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := NewApp()
	app.SetupRoutes(Routes)
	app.SetupNotFoundHandler()

	// This is the package level instance of Db in handlers
	_ = transport.GetDB()

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		adapter := gorillamux.NewV2(app.Router)
		lambda.Start(func(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
			return adapter.ProxyWithContext(ctx, request)
		})
		return
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: false,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(app.Router),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ERR: server error: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERR: server shutdown: %v", err)
	}
	log.Println("Server stopped")
}
