// Package webserver exposes the GraphQL endpoint and the CSV export
// routes over HTTP.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/config"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/graphql-go/graphql"
	jsoniter "github.com/json-iterator/go"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionContextKey = "session"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSerializer routes echo's JSON handling through jsoniter.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	return json.NewDecoder(c.Request().Body).Decode(i)
}

// WebServer hosts the API. A missing or invalid bearer token never
// rejects the request here; it only leaves the context anonymous.
type WebServer struct {
	cfg     *config.AppConfig
	e       *echo.Echo
	schema  graphql.Schema
	authsvc *auth.Service
	db      *gorm.DB
}

func New(cfg *config.AppConfig, schema graphql.Schema, authsvc *auth.Service, db *gorm.DB) *WebServer {
	s := &WebServer{cfg: cfg, schema: schema, authsvc: authsvc, db: db}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: authsvc.Secret(),
		ContextKey: sessionContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			// anonymous context; operations enforce identity themselves
			return nil
		},
	}))
	e.Use(s.identityMiddleware)

	e.GET("/healthz", s.handleHealth)
	e.POST("/api/graphql", s.handleGraphQL)
	e.GET("/api/export/products.csv", s.handleExportProducts)
	e.GET("/api/export/orders.csv", s.handleExportOrders)

	s.e = e
	return s
}

// identityMiddleware converts validated token claims into the identity
// carried by the request context.
func (s *WebServer) identityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := c.Get(sessionContextKey).(*jwt.Token); ok && token.Valid {
			if claims, ok := token.Claims.(*auth.Claims); ok {
				ident := &auth.Identity{
					ID:      claims.ID,
					Email:   claims.Email,
					Name:    claims.Name,
					Surname: claims.Surname,
				}
				ctx := auth.WithIdentity(c.Request().Context(), ident)
				c.SetRequest(c.Request().WithContext(ctx))
			}
		}
		return next(c)
	}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (s *WebServer) handleGraphQL(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse request")
	}
	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})
	return c.JSON(http.StatusOK, result)
}

func (s *WebServer) handleHealth(c echo.Context) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "up"})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *WebServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
