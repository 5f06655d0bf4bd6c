package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/cli/client"
	cliconfig "github.com/spoadmin/spoadmin/internal/cli/config"
	"github.com/spoadmin/spoadmin/internal/cli/router"
	"github.com/spoadmin/spoadmin/internal/cli/serverselect"
	"github.com/spoadmin/spoadmin/internal/cli/session"
	"github.com/spoadmin/spoadmin/internal/config"
	"github.com/spoadmin/spoadmin/internal/logger"
)

// ErrAccessDenied is returned when the navigation guard sends a command's page elsewhere
var ErrAccessDenied = errors.New("access denied")

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

var validate = validator.New()

// Options carries the persistent flags shared by every command
type Options struct {
	ServerAlias string
	TokenStore  string
	Output      string

	cfg        *config.Config
	store      auth.TokenStore
	httpClient *http.Client
}

// Option configures Options; used to inject test doubles
type Option func(*Options)

// WithConfig sets the environment configuration instead of loading it
func WithConfig(cfg *config.Config) Option {
	return func(o *Options) {
		o.cfg = cfg
	}
}

// WithTokenStore sets the token store instead of building one from the backend name
func WithTokenStore(store auth.TokenStore) Option {
	return func(o *Options) {
		o.store = store
	}
}

// WithHTTPClient sets the HTTP client used by the API client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) {
		o.httpClient = httpClient
	}
}

// NewOptions creates command options
func NewOptions(opts ...Option) *Options {
	o := &Options{Output: OutputTable}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the environment configuration, loading it on first use
func (o *Options) Config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// env is everything a command needs to talk to one server
type env struct {
	server    *cliconfig.Server
	client    *client.Client
	session   *session.Session
	navigator *router.Navigator
	logger    zerolog.Logger
}

func (o *Options) env() (*env, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	log := logger.GetLogger()

	// A missing project file is fine when SPOADMIN_SERVER_URL is set
	var project *cliconfig.Config
	if path, err := cliconfig.FindConfigFile(); err == nil {
		if project, err = cliconfig.Load(path); err != nil {
			return nil, err
		}
	} else {
		log.Debug().Err(err).Msg("no project config")
	}

	server, err := serverselect.ResolveServer(project, o.ServerAlias, cfg.API.ServerURL, log)
	if err != nil {
		return nil, err
	}
	if err := server.Validate(); err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		backend := o.TokenStore
		if backend == "" {
			backend = cfg.TokenStore
		}
		store, err = auth.NewStore(backend)
		if err != nil {
			return nil, err
		}
	}

	apiClient := client.New(server.URL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(log),
	)
	if o.httpClient != nil {
		apiClient.SetHTTPClient(o.httpClient)
	}

	sess := session.New(apiClient, store, auth.KeyFor(server.URL), session.WithLogger(log))
	apiClient.SetTokenSource(sess)

	return &env{
		server:    server,
		client:    apiClient,
		session:   sess,
		navigator: router.NewNavigator(sess, log),
		logger:    log,
	}, nil
}

// page builds the env and navigates to path, failing when the guard redirects
func (o *Options) page(cmd *cobra.Command, path string) (*env, error) {
	e, err := o.env()
	if err != nil {
		return nil, err
	}
	if err := e.requirePage(cmd.Context(), path); err != nil {
		return nil, err
	}
	return e, nil
}

// requirePage navigates to path and fails unless the guard lets the session see it
func (e *env) requirePage(ctx context.Context, path string) error {
	res, err := e.navigator.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if !res.Redirected() {
		return nil
	}
	if res.Path() == router.PathLogin {
		return fmt.Errorf("%w: %s: %w", ErrAccessDenied, path, auth.ErrNotAuthenticated)
	}

	role := "current"
	if u := e.session.User(); u != nil {
		role = string(u.Role)
	}
	return fmt.Errorf("%w: %s is not available to %s users (redirected to %s)", ErrAccessDenied, path, role, res.Path())
}

// landing returns the role home page of the session, /admin or /operator
func (e *env) landing(ctx context.Context) (string, error) {
	res, err := e.navigator.Navigate(ctx, router.PathRoot)
	if err != nil {
		return "", err
	}
	if res.Path() == router.PathLogin {
		return "", auth.ErrNotAuthenticated
	}
	return res.Path(), nil
}

// apiError adds a hint to errors the user can act on
func apiError(err error) error {
	if client.IsUnauthorized(err) {
		return fmt.Errorf("%w\nYour session has expired. Run 'spoadmin login' again", err)
	}
	return err
}

// ValidateOutput checks the --output flag
func (o *Options) ValidateOutput() error {
	switch o.Output {
	case "", OutputTable, OutputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be one of: table, json", o.Output)
	}
}

// render prints v as JSON or, by default, through the table callback
func (o *Options) render(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	if o.Output == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

// validateInput checks a request payload against its validate tags
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// optionalID returns nil unless the flag was set on cmd
func optionalID(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
