package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/catalog/internal/api/handlers"
	"github.com/your-org/catalog/internal/api/ws"
	"github.com/your-org/catalog/internal/auth"
	"github.com/your-org/catalog/internal/gallery"
	"github.com/your-org/catalog/internal/imaging"
	"github.com/your-org/catalog/internal/ocr"
	"github.com/your-org/catalog/internal/people"
	"github.com/your-org/catalog/internal/queue"
	"github.com/your-org/catalog/internal/storage"
)

type RouterConfig struct {
	APIKey      string
	Coordinator *people.Coordinator
	Local       *storage.LocalStore
	Store       storage.PeopleStore
	Gallery     *gallery.Gallery
	Compressor  *imaging.Compressor
	Engine      *ocr.Engine
	Sessions    *auth.Sessions
	// Optional components; nil disables the matching endpoints.
	Archive  *storage.ArchiveStore
	Producer *queue.Producer
	Hub      *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.Store, cfg.Archive, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	if cfg.Hub != nil {
		v1.GET("/ws", cfg.Hub.HandleWS)
	}

	// People
	peopleH := handlers.NewPeopleHandler(cfg.Coordinator, cfg.Archive, cfg.Producer, cfg.Hub)
	v1.GET("/people", peopleH.List)
	v1.POST("/people", peopleH.Create)
	v1.GET("/people/where", peopleH.Where)
	v1.GET("/people/:id", peopleH.Get)
	v1.PUT("/people/:id", peopleH.Update)
	v1.DELETE("/people/:id", peopleH.Delete)
	v1.GET("/people/:id/photos/:photoId/original", peopleH.Original)

	// Gallery working set
	galleryH := handlers.NewGalleryHandler(cfg.Gallery, cfg.Compressor, cfg.Archive)
	v1.GET("/gallery", galleryH.Current)
	v1.POST("/gallery", galleryH.Reset)
	v1.POST("/gallery/photos", galleryH.AddPhoto)
	v1.DELETE("/gallery/photos/:photoId", galleryH.RemovePhoto)

	// OCR
	ocrH := handlers.NewOCRHandler(cfg.Engine, cfg.Hub)
	v1.POST("/ocr/extract", ocrH.Extract)
	v1.GET("/ocr/status", ocrH.Status)

	// Session & preferences
	authH := handlers.NewAuthHandler(cfg.Sessions, cfg.Local)
	v1.POST("/auth/session", authH.SignIn)
	v1.GET("/auth/session", authH.Session)
	v1.DELETE("/auth/session", authH.SignOut)
	v1.GET("/prefs/dark-mode", authH.DarkMode)
	v1.PUT("/prefs/dark-mode", authH.SetDarkMode)

	return r
}
