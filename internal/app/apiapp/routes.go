package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
	clientssvc "github.com/Denner-Esteves/painel-approve/internal/services/clients"
	directorysvc "github.com/Denner-Esteves/painel-approve/internal/services/directory"
	metasvc "github.com/Denner-Esteves/painel-approve/internal/services/meta"
	reviewsvc "github.com/Denner-Esteves/painel-approve/internal/services/review"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/handlers"
)

type Dependencies struct {
	AccessService    *accesssvc.Service
	ReviewService    *reviewsvc.Service
	ClientService    *clientssvc.Service
	DirectoryService *directorysvc.Service
	MetaService      *metasvc.Service
	Logger           *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	accessHandler := handlers.NewAccessHandler(deps.AccessService)
	reviewHandler := handlers.NewReviewHandler(deps.ReviewService, deps.AccessService)
	taskHandler := handlers.NewTaskHandler(deps.ReviewService, deps.AccessService)
	clientHandler := handlers.NewClientHandler(deps.ClientService)
	directoryHandler := handlers.NewDirectoryHandler(deps.DirectoryService)
	metaHandler := handlers.NewMetaHandler(deps.MetaService)

	r.Get("/healthz", healthHandler.Get)

	// Reviewer surface: a shared password opens a task-scoped session, the
	// session cookie then authorizes reads and decisions on that task only.
	r.Route("/review/{taskID}", func(r chi.Router) {
		r.Post("/access", accessHandler.Verify)
		r.Post("/logout", accessHandler.Logout)
		r.Get("/", reviewHandler.GetTask)
		r.Post("/decision", reviewHandler.DecideTask)
	})
	r.Post("/review/items/{itemID}/decision", reviewHandler.DecideItem)

	// Operator surface, behind the identity proxy.
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{taskID}", taskHandler.Get)
		r.Delete("/{taskID}", taskHandler.Delete)
		r.Post("/{taskID}/versions", taskHandler.AddVersion)
		r.Put("/{taskID}/status", taskHandler.SetStatus)
	})

	r.Get("/calendar", directoryHandler.Calendar)

	r.Route("/clients", func(r chi.Router) {
		r.Post("/", clientHandler.Create)
		r.Get("/", clientHandler.List)
		r.Get("/{clientID}", clientHandler.Get)
		r.Put("/{clientID}", clientHandler.Update)
		r.Post("/{clientID}/folders", directoryHandler.CreateFolder)
		r.Get("/{clientID}/years", directoryHandler.Years)
		r.Get("/{clientID}/years/{year}/months", directoryHandler.Months)
		r.Get("/{clientID}/years/{year}/months/{month}/tasks", directoryHandler.TasksByMonth)
	})

	r.Route("/auth/meta", func(r chi.Router) {
		r.Get("/login", metaHandler.Login)
		r.Get("/callback", metaHandler.Callback)
		r.Post("/disconnect", metaHandler.Disconnect)
	})
}
