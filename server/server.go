// Package server exposes the resolution engine over HTTP, as a REST endpoint
// and a GraphQL endpoint.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/securego/cwelookup"
)

// MaxIdentifiers bounds the size of one request batch
const MaxIdentifiers = 1000

// ResolveRequest is the body of POST /api/v1/resolve
type ResolveRequest struct {
	IDs []string `json:"ids"`
}

var (
	errNoIdentifiers      = errors.New("ids must contain at least one identifier")
	errTooManyIdentifiers = fmt.Errorf("ids must not contain more than %d identifiers", MaxIdentifiers)
)

// NewFiberApp creates a Fiber app serving health, REST and GraphQL routes
// backed by engine
func NewFiberApp(engine *cwelookup.Engine, log *zap.Logger) (*fiber.App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	schema, err := CreateSchema(engine)
	if err != nil {
		return nil, fmt.Errorf("creating GraphQL schema: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "cwelookup API v1.0",
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(logger.New(logger.Config{
		Output: zap.NewStdLog(log.Named("http")).Writer(),
	}))

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	v1 := app.Group("/api/v1")
	v1.Post("/resolve", ResolveHandler(engine))
	v1.Post("/graphql", GraphQLHandler(schema))

	return app, nil
}

func validateIDs(ids []string) error {
	switch {
	case len(ids) == 0:
		return errNoIdentifiers
	case len(ids) > MaxIdentifiers:
		return errTooManyIdentifiers
	}
	return nil
}

// ResolveHandler returns a Fiber handler resolving the identifiers of a
// ResolveRequest into a batch
func ResolveHandler(engine *cwelookup.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ResolveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validateIDs(req.IDs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		batch, err := engine.ResolveBatch(c.UserContext(), req.IDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(batch)
	}
}

// GraphQLHandler returns a Fiber handler for GraphQL requests
func GraphQLHandler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{{"message": "Invalid request body"}},
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
