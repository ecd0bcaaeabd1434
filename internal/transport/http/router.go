package http

import (
	_ "embed"
	"net/http"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	websocketTransport "github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/transport/websocket"
)

//go:embed swagger.yaml
var swaggerSpec []byte

// Handlers groups everything the router dispatches to
type Handlers struct {
	Products   *ProductHandler
	Carts      *CartHandler
	Thumbnails *ThumbnailHandler
	WebSocket  *websocketTransport.Handler
}

func NewRouter(h Handlers, logger hclog.Logger, cors *CORSConfig) *mux.Router {
	router := mux.NewRouter()

	mw := NewMiddleware(logger, cors)

	// Apply global middleware
	router.Use(mw.RecoveryMiddleware)
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.CORSMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(mw.ContentTypeMiddleware)

	api.HandleFunc("/products", h.Products.GetProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.Products.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{pid}", h.Products.GetProductByID).Methods(http.MethodGet)
	api.HandleFunc("/products/{pid}", h.Products.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{pid}", h.Products.DeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{pid}/thumbnails", h.Thumbnails.Upload).Methods(http.MethodPost)

	api.HandleFunc("/carts", h.Carts.CreateCart).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cid}", h.Carts.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/carts/{cid}", h.Carts.ReplaceProducts).Methods(http.MethodPut)
	api.HandleFunc("/carts/{cid}", h.Carts.EmptyCart).Methods(http.MethodDelete)
	api.HandleFunc("/carts/{cid}/product/{pid}", h.Carts.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cid}/product/{pid}", h.Carts.SetQuantity).Methods(http.MethodPut)
	api.HandleFunc("/carts/{cid}/product/{pid}", h.Carts.RemoveProduct).Methods(http.MethodDelete)

	// preflight requests are answered by the CORS middleware
	api.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorEnvelope{Status: statusError, Message: "Route not found"})
	})
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorEnvelope{Status: statusError, Message: "Method not allowed"})
	})

	thumbs := router.PathPrefix(ThumbnailPrefix).Subrouter()
	thumbs.Use(GzipMiddleware)
	thumbs.HandleFunc("/{pid}/{filename}", h.Thumbnails.Get).Methods(http.MethodGet)

	router.HandleFunc("/ws", h.WebSocket.HandleWebSocket).Methods(http.MethodGet)

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(swaggerSpec)
	}).Methods(http.MethodGet)

	// Configure the Redoc middleware to point to the correct SpecURL
	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	swaggerHandler := middleware.Redoc(swaggerOpts, nil)
	router.Handle("/docs", swaggerHandler).Methods(http.MethodGet)

	return router
}
