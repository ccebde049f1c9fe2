package accounts

import (
	stderrors "errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// DefaultTokenHeader is the header tokenIsValid reads the credential from.
const DefaultTokenHeader = "x-auth-token"

// AccountController exposes the account operations as a JSON API.
type AccountController struct {
	Debug       bool
	Logger      Logger
	Service     Accounts
	TokenHeader string
}

type AccountControllerOption func(*AccountController) *AccountController

// NewAccountController creates the controller with sane defaults.
func NewAccountController(service Accounts, opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger:      defLogger{},
		Service:     service,
		TokenHeader: DefaultTokenHeader,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing Accounts service in account controller...")
	}

	return c
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Logger = logger
		return c
	}
}

// WithControllerDebug toggles debug dumps of responses.
func WithControllerDebug(debug bool) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Debug = debug
		return c
	}
}

// RegisterRoutes mounts the API surface. The gate guards the identity and
// delete routes; everything else is public.
func RegisterRoutes(app fiber.Router, controller *AccountController, gate fiber.Handler) {
	app.Get("/test", controller.Test)
	app.Post("/register", controller.Register)
	app.Post("/login", controller.Login)
	app.Post("/tokenIsValid", controller.TokenIsValid)

	app.Get("/", gate, controller.CurrentUser)
	app.Delete("/delete", gate, controller.Delete)
}

// Test is a plain liveness acknowledgment.
func (a *AccountController) Test(c *fiber.Ctx) error {
	return c.SendString("Hello it's working")
}

// Register handles POST /register.
func (a *AccountController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body"))
	}

	user, err := a.Service.Register(c.UserContext(), *payload)
	if err != nil {
		a.Logger.Error("register account", "error", err)
		return a.respondError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(user))
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /login.
func (a *AccountController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body"))
	}

	result, err := a.Service.Login(c.UserContext(), *payload)
	if err != nil {
		a.Logger.Error("login", "error", err)
		return a.respondError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(result.User))
	}

	return c.JSON(result)
}

// TokenIsValid handles POST /tokenIsValid. Verification failures are a
// regular false response; only infrastructure faults become a 500.
func (a *AccountController) TokenIsValid(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get(a.TokenHeader))

	ok, err := a.Service.CheckToken(c.UserContext(), raw)
	if err != nil {
		a.Logger.Error("token check", "error", err)
		return a.respondError(c, err)
	}

	return c.JSON(ok)
}

// CurrentUser handles GET /. The gate already resolved the identifier.
func (a *AccountController) CurrentUser(c *fiber.Ctx) error {
	userID, ok := UserIDFromContext(c.UserContext())
	if !ok {
		return a.respondError(c, ErrTokenInvalid)
	}

	user, err := a.Service.CurrentUser(c.UserContext(), userID)
	if err != nil {
		a.Logger.Error("current user lookup", "error", err)
		return a.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"displayName": user.DisplayName,
		"id":          user.ID,
	})
}

// Delete handles DELETE /delete and returns the removed account's public view.
func (a *AccountController) Delete(c *fiber.Ctx) error {
	userID, ok := UserIDFromContext(c.UserContext())
	if !ok {
		return a.respondError(c, ErrTokenInvalid)
	}

	user, err := a.Service.DeleteAccount(c.UserContext(), userID)
	if err != nil {
		a.Logger.Error("delete account", "error", err)
		return a.respondError(c, err)
	}

	return c.JSON(user)
}

// respondError maps the error taxonomy onto the wire contract: caller
// correctable problems get a 400 with {msg}, auth problems at the gate get a
// 401, anything else is a 500 with {error}.
func (a *AccountController) respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	switch richErr.Category {
	case errors.CategoryValidation,
		errors.CategoryBadInput,
		errors.CategoryConflict,
		errors.CategoryNotFound,
		errors.CategoryAuth:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": richErr.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": richErr.Message})
	}
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("values must match")
		}
		return nil
	}
}
