package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-bulletin-api/internal/middleware"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// Router mounts the bulletin endpoints under an API prefix.
type Router struct {
	Tokens        middleware.TokenValidator
	Announcements *AnnouncementHandler
	Attachments   *AttachmentHandler
	Calendar      *CalendarHandler
	Metrics       *MetricsHandler
}

// Register attaches every route to r. Probes and metrics live at the root,
// everything else under prefix.
func (rt Router) Register(r *gin.Engine, prefix string) {
	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		r.GET("/metrics", rt.Metrics.Prometheus)
	}

	api := r.Group(prefix)
	public := api.Group("", middleware.OptionalJWT(rt.Tokens))
	secured := api.Group("", middleware.JWT(rt.Tokens))

	privileged := middleware.RequirePrivileged()
	authors := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher)

	if h := rt.Announcements; h != nil {
		public.GET("/announcements/feed", h.Feed)
		public.GET("/announcements/:id", h.Get)

		secured.GET("/announcements", h.List)
		secured.GET("/announcements/archive", privileged, h.ListArchive)
		secured.POST("/announcements", authors, h.Create)
		secured.PUT("/announcements/:id", authors, h.Update)
		secured.POST("/announcements/:id/submit", authors, h.Submit)
		secured.POST("/announcements/:id/approve", privileged, h.Approve)
		secured.POST("/announcements/:id/reject", privileged, h.Reject)
		secured.POST("/announcements/:id/publish", privileged, h.Publish)
		secured.POST("/announcements/:id/unpublish", authors, h.Unpublish)
		secured.POST("/announcements/:id/archive", authors, h.ArchiveOne)
		secured.POST("/announcements/:id/restore", privileged, h.Restore)
		secured.DELETE("/announcements/:id", authors, h.Delete)
		secured.DELETE("/announcements/:id/permanent", privileged, h.PermanentDelete)
	}

	if h := rt.Attachments; h != nil {
		// The signed token is the credential for downloads.
		public.GET("/announcements/:id/attachments/:attachmentId/download", h.Download)

		secured.GET("/announcements/:id/attachments", h.List)
		secured.GET("/announcements/:id/attachments/:attachmentId/download-url", h.DownloadURL)
		secured.POST("/announcements/:id/attachments", authors, h.Upload)
		secured.POST("/announcements/:id/attachments/:attachmentId/primary", authors, h.SetPrimary)
		secured.DELETE("/announcements/:id/attachments/:attachmentId", authors, h.Delete)
	}

	if h := rt.Calendar; h != nil {
		public.GET("/calendar/view", h.View)
		public.GET("/calendar/events", h.Events)
		public.GET("/calendar/export", h.Export)
		public.GET("/calendar/feed.ics", h.Feed)
		public.GET("/calendar/:id", h.Get)

		secured.GET("/calendar/archive", privileged, h.ListArchive)
		secured.POST("/calendar", privileged, h.Create)
		secured.PUT("/calendar/:id", privileged, h.Update)
		secured.POST("/calendar/:id/publish", privileged, h.Publish)
		secured.POST("/calendar/:id/unpublish", privileged, h.Unpublish)
		secured.POST("/calendar/:id/archive", privileged, h.ArchiveOne)
		secured.POST("/calendar/:id/restore", privileged, h.Restore)
		secured.DELETE("/calendar/:id", privileged, h.Delete)
		secured.DELETE("/calendar/:id/permanent", privileged, h.PermanentDelete)
	}
}
