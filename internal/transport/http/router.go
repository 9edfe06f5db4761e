package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	sloggin "github.com/samber/slog-gin"

	"github.com/ErlanBelekov/habit-tracker/internal/transport/http/middleware"
)

// NewRouter wires the query engine's HTTP adapter behind the middleware
// chain. The auth gate sits only on /graphql; everything the engine
// resolves therefore runs with a verified identity in context.
func NewRouter(logger *slog.Logger, schema graphql.Schema, verifier middleware.TokenVerifier, env string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	gql := gqlhandler.New(&gqlhandler.Config{
		Schema: &schema,
		Pretty: env == "local",
	})

	r.POST("/graphql", middleware.Auth(verifier), gin.WrapH(gql))

	// Interactive explorer for local development. Queries issued from it
	// still go through POST /graphql and need a token.
	if env == "local" {
		r.GET("/graphiql", gin.WrapH(gqlhandler.New(&gqlhandler.Config{
			Schema:   &schema,
			GraphiQL: true,
		})))
	}

	return r
}
