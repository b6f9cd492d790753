package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/sirajyamin/blink-graphql/internal/auth"
	"github.com/sirajyamin/blink-graphql/internal/graph"
	"github.com/sirajyamin/blink-graphql/internal/presence"
	"github.com/sirajyamin/blink-graphql/internal/rbac"
)

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// NewServer builds the fiber app: cors + compression, token
// authentication, health route, and the GraphQL endpoint.
func NewServer(schema graphql.Schema, tokens *auth.Manager, tracker *presence.Tracker, log *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowCredentials: true,
	}))
	app.Use(compress.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Server is up and running"})
	})

	// The token travels in a bare "token" header. A missing header means
	// an anonymous request; a malformed token fails the request here,
	// before any resolver runs.
	app.Use(func(c *fiber.Ctx) error {
		tokenStr := c.Get("token")
		if tokenStr == "" {
			return c.Next()
		}
		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		p := &rbac.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
		c.SetUserContext(graph.WithPrincipal(c.UserContext(), p))
		if err := tracker.Touch(c.UserContext(), p.ID); err != nil {
			log.Debugw("presence touch failed", "user", p.ID, "err", err)
		}
		return c.Next()
	})

	app.Post("/graphql", func(c *fiber.Ctx) error {
		var req graphqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        c.UserContext(),
		})
		return c.JSON(result)
	})

	return app
}
