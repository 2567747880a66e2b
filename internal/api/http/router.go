package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/qslabs/sms-service/internal/api/http/handlers"
	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/observability"
)

// Route declares one endpoint and who may call it.
type Route struct {
	Method  string
	Path    string
	Access  auth.Access
	Handler fiber.Handler
	// Extra runs after the access check and before Handler.
	Extra []fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Students     *handlers.StudentsHandler
	Teachers     *handlers.TeachersHandler
	Courses      *handlers.CoursesHandler
	Attendance   *handlers.AttendanceHandler
	Timetable    *handlers.TimetableHandler
	Assignments  *handlers.CourseAssignmentsHandler
	LoginLimiter *LoginRateLimiter
	Metrics      *observability.Metrics
}

// Routes returns the full route table. More specific paths come before
// parameterised siblings because fiber matches in registration order.
func Routes(cfg RouteConfig) []Route {
	var (
		public    = auth.Public()
		anyRole   = auth.Authenticated()
		admin     = auth.Allow(domain.RoleAdmin)
		staff     = auth.Allow(domain.RoleAdmin, domain.RoleTeacher)
		students  = auth.Allow(domain.RoleAdmin, domain.RoleStudent)
		loginHook []fiber.Handler
	)
	if cfg.LoginLimiter != nil {
		loginHook = []fiber.Handler{cfg.LoginLimiter.Handler()}
	}

	var routes []Route
	if h := cfg.Health; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/health/live", Access: public, Handler: h.Live},
			Route{Method: fiber.MethodGet, Path: "/health/ready", Access: public, Handler: h.Ready},
		)
	}
	if cfg.Metrics != nil {
		routes = append(routes, Route{
			Method: fiber.MethodGet, Path: "/metrics", Access: public,
			Handler: adaptor.HTTPHandler(cfg.Metrics.Handler()),
		})
	}
	if h := cfg.Users; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodPost, Path: "/api/users/signin", Access: public, Handler: h.Register},
			Route{Method: fiber.MethodPost, Path: "/api/users/login", Access: public, Handler: h.Login, Extra: loginHook},
			Route{Method: fiber.MethodPost, Path: "/api/users/logout", Access: public, Handler: h.Logout},
			Route{Method: fiber.MethodGet, Path: "/api/users/me", Access: anyRole, Handler: h.Me},
			Route{Method: fiber.MethodGet, Path: "/api/users", Access: admin, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/users/:id", Access: admin, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/users/username", Access: anyRole, Handler: h.UpdateUsername},
			Route{Method: fiber.MethodPost, Path: "/api/users/email", Access: anyRole, Handler: h.UpdateEmail},
			Route{Method: fiber.MethodPost, Path: "/api/users/password", Access: anyRole, Handler: h.UpdatePassword},
			Route{Method: fiber.MethodPost, Path: "/api/users/role", Access: admin, Handler: h.UpdateRole},
			Route{Method: fiber.MethodDelete, Path: "/api/users", Access: admin, Handler: h.Delete},
		)
	}
	if h := cfg.Students; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/students", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/students/count", Access: anyRole, Handler: h.Count},
			Route{Method: fiber.MethodGet, Path: "/api/students/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/students", Access: admin, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/students/:id", Access: students, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/students/:id", Access: admin, Handler: h.Delete},
		)
	}
	if h := cfg.Teachers; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/teachers", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/teachers/user/:id", Access: anyRole, Handler: h.GetByUser},
			Route{Method: fiber.MethodGet, Path: "/api/teachers/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/teachers", Access: admin, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/teachers/:id", Access: staff, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/teachers/:id", Access: admin, Handler: h.Delete},
		)
	}
	if h := cfg.Courses; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/courses", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/courses/count", Access: anyRole, Handler: h.Count},
			Route{Method: fiber.MethodGet, Path: "/api/courses/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/courses", Access: admin, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/courses/:id", Access: admin, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/courses/:id", Access: admin, Handler: h.Delete},
		)
	}
	if h := cfg.Attendance; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/attendance", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/attendance/summary", Access: anyRole, Handler: h.Summary},
			Route{Method: fiber.MethodGet, Path: "/api/attendance/student/:id", Access: anyRole, Handler: h.ListByUser},
			Route{Method: fiber.MethodGet, Path: "/api/attendance/studentwithdate/:id", Access: anyRole, Handler: h.ListByUserInRange},
			Route{Method: fiber.MethodGet, Path: "/api/attendance/course/:id", Access: anyRole, Handler: h.ListByCourse},
			Route{Method: fiber.MethodGet, Path: "/api/attendance/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/attendance", Access: staff, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/attendance/:id", Access: staff, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/attendance/:id", Access: staff, Handler: h.Delete},
		)
	}
	if h := cfg.Timetable; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/timetable", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/timetable/today/count", Access: anyRole, Handler: h.CountToday},
			Route{Method: fiber.MethodGet, Path: "/api/timetable/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/timetable", Access: admin, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/timetable/:id", Access: admin, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/timetable/:id", Access: admin, Handler: h.Delete},
		)
	}
	if h := cfg.Assignments; h != nil {
		routes = append(routes,
			Route{Method: fiber.MethodGet, Path: "/api/courseassign", Access: anyRole, Handler: h.List},
			Route{Method: fiber.MethodGet, Path: "/api/courseassign/user/:id", Access: anyRole, Handler: h.ListByUser},
			Route{Method: fiber.MethodGet, Path: "/api/courseassign/course/:id", Access: anyRole, Handler: h.ListByCourse},
			Route{Method: fiber.MethodGet, Path: "/api/courseassign/:id", Access: anyRole, Handler: h.Get},
			Route{Method: fiber.MethodPost, Path: "/api/courseassign", Access: admin, Handler: h.Create},
			Route{Method: fiber.MethodPut, Path: "/api/courseassign/:id", Access: admin, Handler: h.Update},
			Route{Method: fiber.MethodDelete, Path: "/api/courseassign/:id", Access: admin, Handler: h.Delete},
		)
	}
	return routes
}

// RegisterRoutes validates the table and mounts every route with its gate in
// front of the handler. Nothing is mounted if any entry is invalid.
func RegisterRoutes(app *fiber.App, routes []Route, metrics *observability.Metrics) error {
	if err := ValidateRoutes(routes); err != nil {
		return err
	}
	for _, r := range routes {
		chain := make([]fiber.Handler, 0, len(r.Extra)+2)
		chain = append(chain, auth.Require(r.Access, metrics))
		chain = append(chain, r.Extra...)
		chain = append(chain, r.Handler)
		app.Add(r.Method, r.Path, chain...)
	}
	return nil
}

// ValidateRoutes rejects undeclared access, nil handlers and duplicates.
func ValidateRoutes(routes []Route) error {
	seen := make(map[string]struct{}, len(routes))
	var errs []error
	for _, r := range routes {
		key := strings.ToUpper(r.Method) + " " + normalizePath(r.Path)
		if err := r.Access.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		if r.Handler == nil {
			errs = append(errs, fmt.Errorf("%s: nil handler", key))
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: declared twice", key))
		}
		seen[key] = struct{}{}
	}
	return errors.Join(errs...)
}

// normalizePath folds the spellings fiber treats as one route.
func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
