package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/config"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/handler"
	"blogapi/internal/service"
)

// Register wires routes and middleware. Reads are public; every mutating
// route sits behind the auth gate.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	tagHandler *handler.TagHandler,
	postHandler *handler.PostHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)
	api.GET("/tags", tagHandler.ListTags)
	api.GET("/tags/:id", tagHandler.GetTag)
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:id", postHandler.GetPost)

	// Secured routes: echo-jwt checks signature and expiry, activeUser then
	// resolves the subject to an existing, non-disabled user.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ErrorHandler: func(c echo.Context, err error) error {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return c.JSON(he.StatusCode, he.ToErrorResponse())
		},
	}), activeUser(authService))

	secured.GET("/users/me", userHandler.Me)
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.POST("/users", userHandler.CreateUser)

	secured.POST("/categories", categoryHandler.CreateCategory)
	secured.PUT("/categories/:id", categoryHandler.UpdateCategory)
	secured.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	secured.POST("/tags", tagHandler.CreateTag)
	secured.PUT("/tags/:id", tagHandler.UpdateTag)
	secured.DELETE("/tags/:id", tagHandler.DeleteTag)

	secured.POST("/posts", postHandler.CreatePost)
	secured.PUT("/posts/:id", postHandler.UpdatePost)
	secured.DELETE("/posts/:id", postHandler.DeletePost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
