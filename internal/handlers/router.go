package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers はルーターに登録する全ハンドラをまとめます。
type Handlers struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Question   *QuestionHandler
	Enrollment *EnrollmentHandler
	Activity   *ActivityHandler
	Dashboard  *DashboardHandler
	Badge      *BadgeHandler
	Health     *HealthHandler
}

// RegisterRoutes は /api/v1 配下のルートと /health を登録します。
// authMiddleware は認証が必要なグループにのみ適用されます。
func RegisterRoutes(r chi.Router, h *Handlers, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", h.Auth.GetMe)
			r.Get("/me/badges", h.Badge.ListMine)
			r.Get("/dashboard", h.Dashboard.GetDashboard)
			r.Get("/badges", h.Badge.ListCatalog)
			r.Post("/activity", h.Activity.RecordActivity)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.Course.ListCourses)
				r.Post("/", h.Course.CreateCourse)

				r.Route("/{courseID}", func(r chi.Router) {
					r.Get("/", h.Course.GetCourse)
					r.Put("/", h.Course.UpdateCourse)
					r.Delete("/", h.Course.DeleteCourse)
					r.Post("/enroll", h.Enrollment.Enroll)
					r.Post("/favorite", h.Enrollment.ToggleFavorite)

					r.Route("/lessons", func(r chi.Router) {
						r.Post("/", h.Course.CreateLesson)

						r.Route("/{lessonID}", func(r chi.Router) {
							r.Get("/", h.Course.GetLesson)
							r.Put("/", h.Course.UpdateLesson)
							r.Delete("/", h.Course.DeleteLesson)

							r.Post("/questions", h.Question.CreateQuestion)
							r.Put("/questions/{questionID}", h.Question.UpdateQuestion)
							r.Delete("/questions/{questionID}", h.Question.DeleteQuestion)
						})
					})
				})
			})

			r.Post("/questions/{questionID}/answer", h.Question.SubmitAnswer)
		})
	})

	if h.Health != nil {
		r.Get("/health", h.Health.Health)
	}
}
