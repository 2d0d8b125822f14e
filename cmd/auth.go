package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/skillswap/internal/auth"
	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/services"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/urfave/cli/v3"
)

// synchronizer wires a fresh store to the backend session for a single command.
func (r *Runner) synchronizer(client *services.Client) (*auth.Store, *auth.Synchronizer) {
	store := auth.NewStore()
	sync := auth.NewSynchronizer(auth.SynchronizerOpts{
		Client: client,
		Store:  store,
		Navigator: auth.NavigatorFunc(func(route auth.Route) {
			r.logger.Debug("navigate", "route", route)
		}),
		Logger:  r.logger,
		Runtime: auth.ClientRuntime,
	})
	return store, sync
}

// password returns the --password flag or prompts for one.
func (r *Runner) password(cmd *cli.Command) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}
	return r.promptPassword("Password: ")
}

// AuthLogin logs in and stores the session cookie.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	creds := models.Credentials{Email: strings.TrimSpace(cmd.String("email")), Password: password}
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	client, err := r.session()
	if err != nil {
		return err
	}
	store, sync := r.synchronizer(client)

	r.logger.Info("logging in", "email", creds.Email)
	resp, err := sync.Login(ctx, client, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	st := store.Get()
	if !st.IsAuthenticated {
		msg := resp.Message
		if msg == "" {
			msg = "backend did not return a user id"
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, msg)
	}

	r.logger.Info("login successful", "user_id", st.ID())
	return r.writePlain("✓ Logged in as user #%d\n", st.ID())
}

// AuthRegister creates an account. The backend starts a session on success.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}

	user := models.NewUser{
		Email:          strings.TrimSpace(cmd.String("email")),
		Password:       password,
		Name:           cmd.String("name"),
		PinCode:        cmd.String("pin-code"),
		ProfilePicture: cmd.String("profile-picture"),
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	client, err := r.session()
	if err != nil {
		return err
	}

	r.logger.Info("registering", "email", user.Email)
	resp, err := client.Register(ctx, user)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.Message)
	}

	r.writePlain("✓ Registered %s\n", user.Email)
	if resp.UserID != nil {
		r.writePlain("User ID: %d\n", *resp.UserID)
	}
	return nil
}

// AuthLogout ends the backend session and removes the stored cookies.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	client, err := r.session()
	if err != nil {
		return err
	}
	_, sync := r.synchronizer(client)
	sync.Logout(ctx)

	base, err := r.backendURL()
	if err != nil {
		return err
	}
	if err := r.jar.Clear(base); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}

	return r.writePlain("✓ Logged out\n")
}

type authStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        *int64 `json:"user_id"`
	Backend       string `json:"backend"`
}

// AuthStatus checks the stored session against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	client, err := r.session()
	if err != nil {
		return err
	}
	store, sync := r.synchronizer(client)

	r.logger.Info("checking session", "backend", client.BaseURL())
	sync.Init(ctx)
	st := store.Get()

	if cmd.Bool("json") {
		return r.writeJSON(authStatus{Authenticated: st.IsAuthenticated, UserID: st.UserID, Backend: client.BaseURL()}, cmd.Bool("pretty"))
	}

	r.writePlain("Backend: %s\n", client.BaseURL())
	if st.IsAuthenticated {
		return r.writePlain("Session: ✓ Authenticated as user #%d\n", st.ID())
	}
	return r.writePlain("Session: ✗ Not authenticated\n")
}

// AuthImport seeds the cookie jar from a browser "Copy as cURL" command and verifies the session.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		req *shared.CurlRequest
		err error
	)
	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	cookies, err := req.Cookies()
	if err != nil {
		return err
	}

	base, err := r.backendURL()
	if err != nil {
		return err
	}
	if req.URL != "" && !strings.Contains(req.URL, base.Host) {
		r.logger.Warn("cURL target differs from configured backend", "url", req.URL, "backend", base.Host)
	}

	client, err := r.session()
	if err != nil {
		return err
	}
	if err := r.jar.Import(base, cookies); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.logger.Info("imported cookies", "count", len(cookies), "host", base.Host)

	store, sync := r.synchronizer(client)
	sync.Init(ctx)
	st := store.Get()

	r.writePlain("✓ Imported %d cookie(s) for %s\n", len(cookies), base.Host)
	if !st.IsAuthenticated {
		return fmt.Errorf("%w: imported session was not accepted by the backend", shared.ErrNotAuthenticated)
	}
	return r.writePlain("Session: ✓ Authenticated as user #%d\n", st.ID())
}
