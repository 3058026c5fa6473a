package handler

import (
	"net/http"

	"japanese-doc-reader/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Every route is session-scoped via X-Session-ID
	router.Use(SessionMiddleware)

	// Initialize handlers
	documentHandler := NewDocumentHandler(container.Sessions, container.Classifier, container.Config, container.Logger)
	aiHandler := NewAIHandler(container.Sessions, container.Gateway, container.Artifacts, container.Config, container.Logger)

	// Health and session state
	router.HandleFunc("/health", documentHandler.Health).Methods("GET")

	// Document routes
	router.HandleFunc("/upload-doc", documentHandler.UploadDocument).Methods("POST")
	router.HandleFunc("/page/{num}", documentHandler.GetPage).Methods("GET")
	router.HandleFunc("/navigate", documentHandler.Navigate).Methods("POST")

	// AI routes
	router.HandleFunc("/ocr-page", aiHandler.OCRPage).Methods("POST")
	router.HandleFunc("/furigana", aiHandler.Furigana).Methods("POST")
	router.HandleFunc("/furigana-plus", aiHandler.FuriganaPlus).Methods("POST")
	router.HandleFunc("/ask", aiHandler.Ask).Methods("POST")
	router.HandleFunc("/analyze", aiHandler.Analyze).Methods("POST")
	router.HandleFunc("/word-list", aiHandler.WordList).Methods("POST")
	router.HandleFunc("/speech", aiHandler.Speech).Methods("POST")

	// Artifact routes
	router.HandleFunc("/save-text", aiHandler.SaveText).Methods("POST")
	router.HandleFunc("/save-furigana", aiHandler.SaveFurigana).Methods("POST")
	router.HandleFunc("/save-speech", aiHandler.SaveSpeech).Methods("POST")

	// Configure CORS. The desktop and web readers run from file:// or
	// localhost dev servers, so origins stay permissive.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Session-ID",
		},
		ExposedHeaders: []string{
			"X-Session-ID",
			"Content-Disposition",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
