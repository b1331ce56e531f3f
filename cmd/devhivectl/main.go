package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/devhive/devhive-client/config"
	"github.com/devhive/devhive-client/internal/bootstrap"
	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/forum"
	"github.com/devhive/devhive-client/internal/guard"
	"github.com/devhive/devhive-client/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	App    *bootstrap.App
}

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.Log)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	app, err := bootstrap.BuildApp(&cfg, &logNavigator{logger: logger}, logger)
	if err != nil {
		logger.Error("build client", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	app.Store.Start(ctx)

	cmdCtx := &commandContext{Ctx: ctx, Logger: logger, Config: cfg, App: app}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1)
	}
}

// logNavigator binds navigation intents to log lines: the CLI has no
// router, so redirects surface as messages.
type logNavigator struct {
	logger *slog.Logger
}

func (n *logNavigator) ToSignIn(returnPath string) {
	n.logger.Warn("redirected to sign-in", "return_path", returnPath)
}

func (n *logNavigator) ToForbidden() {
	n.logger.Warn("redirected to forbidden")
}

func commands() map[string]command {
	cmds := []command{
		{"login", "sign in and resolve the membership tier", cmdLogin},
		{"register", "create an account and sign in", cmdRegister},
		{"logout", "sign out", cmdLogout},
		{"whoami", "show the current session state", cmdWhoami},
		{"role", "show (or --refresh) the resolved role", cmdRole},
		{"guard", "evaluate route access for the current session", cmdGuard},
		{"posts", "list posts", cmdPosts},
		{"post-create", "publish a post", cmdPostCreate},
		{"comments", "list comments on a post", cmdComments},
		{"comment-report", "report a comment for moderation", cmdCommentReport},
		{"announcements", "list announcements", cmdAnnouncements},
		{"users", "list all user profiles (admin)", cmdUsers},
		{"promote", "set a user's role (admin)", cmdPromote},
		{"upgrade-gold", "create a membership intent and record the upgrade", cmdUpgradeGold},
	}
	out := make(map[string]command, len(cmds))
	for _, c := range cmds {
		out[c.name] = c
	}
	return out
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: devhivectl <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	names := make([]string, 0)
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands()[name].description)
	}
}

// signIn authenticates from flags, falling back to DEVHIVE_EMAIL and
// DEVHIVE_PASSWORD. Commands hitting protected endpoints call this first.
func signIn(c *commandContext, email, password string) error {
	if email == "" {
		email = os.Getenv("DEVHIVE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DEVHIVE_PASSWORD")
	}
	if email == "" {
		return fmt.Errorf("no credentials: pass --email/--password or set DEVHIVE_EMAIL/DEVHIVE_PASSWORD")
	}
	_, err := c.App.Store.SignIn(c.Ctx, ports.Credentials{Email: email, Password: password})
	return err
}

// printJSON renders v as indented JSON, optionally filtered by a JMESPath
// query.
func printJSON(v any, query string) error {
	if query != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode output: %w", err)
		}
		filtered, err := jmespath.Search(query, decoded)
		if err != nil {
			return fmt.Errorf("apply query %q: %w", query, err)
		}
		v = filtered
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func cmdLogin(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := signIn(c, *email, *password); err != nil {
		return err
	}
	state := c.App.Store.State()
	role, err := c.App.Resolver.Resolve(c.Ctx, *state.Identity)
	if err != nil {
		c.Logger.WarnContext(c.Ctx, "role unresolved, retry with 'role --refresh'", "error", err)
	}
	return printJSON(map[string]any{
		"email": state.Identity.Email,
		"name":  state.Identity.DisplayName,
		"role":  role,
	}, "")
}

func cmdRegister(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	avatar := fs.String("avatar", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	identity, err := c.App.Store.SignUp(c.Ctx,
		ports.Credentials{Email: *email, Password: *password},
		ports.Profile{DisplayName: *name, AvatarURL: *avatar})
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"email": identity.Email, "name": identity.DisplayName}, "")
}

func cmdLogout(c *commandContext, _ []string) error {
	return c.App.Store.SignOut(c.Ctx)
}

func cmdWhoami(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath filter for the output")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email != "" || os.Getenv("DEVHIVE_EMAIL") != "" {
		if err := signIn(c, *email, *password); err != nil {
			return err
		}
	}

	state := c.App.Store.State()
	out := map[string]any{"phase": state.Phase.String()}
	if state.Identity != nil {
		out["identity"] = map[string]string{
			"id":    state.Identity.ID,
			"email": state.Identity.Email,
			"name":  state.Identity.DisplayName,
		}
	}
	return printJSON(out, *query)
}

func cmdRole(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("role", flag.ContinueOnError)
	refresh := fs.Bool("refresh", false, "invalidate the cache and re-fetch")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}

	identity := *c.App.Store.State().Identity
	var (
		role domainauth.Role
		err  error
	)
	if *refresh {
		role, err = c.App.Resolver.Refresh(c.Ctx, identity)
	} else {
		role, err = c.App.Resolver.Resolve(c.Ctx, identity)
	}
	if err != nil {
		return err
	}
	return printJSON(map[string]domainauth.Role{"role": role}, "")
}

func cmdGuard(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("guard", flag.ContinueOnError)
	path := fs.String("path", "/dashboard", "route being attempted")
	require := fs.String("require", "authenticated", "public, authenticated, or a role name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email != "" || os.Getenv("DEVHIVE_EMAIL") != "" {
		if err := signIn(c, *email, *password); err != nil {
			return err
		}
	}

	var req guard.Requirement
	switch strings.ToLower(*require) {
	case "public":
		req = guard.Public()
	case "authenticated":
		req = guard.Authenticated()
	default:
		role := domainauth.Role(*require)
		if !role.Valid() {
			return fmt.Errorf("unknown requirement %q", *require)
		}
		req = guard.MinRole(role)
	}

	state := c.App.Store.State()
	var status guard.RoleStatus
	if state.Identity != nil {
		if state.Phase == domainauth.PhaseAuthenticated {
			if _, err := c.App.Resolver.Resolve(c.Ctx, *state.Identity); err != nil {
				c.Logger.WarnContext(c.Ctx, "role resolution failed, deciding fail-closed", "error", err)
			}
		}
		status.Role, status.Resolved = c.App.Resolver.Peek(c.Ctx, *state.Identity)
	}

	decision := guard.Decide(state, status, req, *path)
	return printJSON(map[string]string{
		"decision":    decision.Kind.String(),
		"return_path": decision.ReturnPath,
	}, "")
}

func cmdPosts(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	tag := fs.String("tag", "", "filter by tag")
	popular := fs.Bool("popular", false, "sort by popularity")
	query := fs.String("query", "", "JMESPath filter for the output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	posts, err := c.App.Forum.Posts.List(c.Ctx, forum.ListPostsQuery{
		Page:             *page,
		Tag:              *tag,
		SortByPopularity: *popular,
	})
	if err != nil {
		return err
	}
	return printJSON(posts, *query)
}

func cmdPostCreate(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("post-create", flag.ContinueOnError)
	title := fs.String("title", "", "post title")
	description := fs.String("description", "", "post body")
	tag := fs.String("tag", "", "post tag")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}

	identity := *c.App.Store.State().Identity
	count, err := c.App.Forum.Posts.CountByAuthor(c.Ctx, identity.Email)
	if err == nil {
		c.Logger.InfoContext(c.Ctx, "existing posts", "count", count)
	}

	post, err := c.App.Forum.Posts.Create(c.Ctx, forum.CreatePostInput{
		AuthorName:  identity.DisplayName,
		AuthorEmail: identity.Email,
		AuthorImage: identity.AvatarURL,
		Title:       *title,
		Description: *description,
		Tag:         *tag,
	})
	if err != nil {
		return err
	}
	return printJSON(post, "")
}

func cmdComments(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("comments", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath filter for the output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: comments <post-id>")
	}

	comments, err := c.App.Forum.Comments.ListByPost(c.Ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return printJSON(comments, *query)
}

func cmdCommentReport(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("comment-report", flag.ContinueOnError)
	feedback := fs.String("feedback", "", "report reason")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: comment-report <comment-id> --feedback <reason>")
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}
	return c.App.Forum.Comments.Report(c.Ctx, fs.Arg(0), *feedback)
}

func cmdAnnouncements(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("announcements", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath filter for the output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	announcements, err := c.App.Forum.Announcements.List(c.Ctx)
	if err != nil {
		return err
	}
	return printJSON(announcements, *query)
}

func cmdUsers(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath filter for the output")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}

	users, err := c.App.Forum.Users.List(c.Ctx)
	if err != nil {
		return err
	}
	return printJSON(users, *query)
}

func cmdPromote(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	role := fs.String("role", string(domainauth.RoleAdmin), "target role")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: promote <user-id> [--role <role>]")
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}

	if err := c.App.Forum.Users.PromoteRole(c.Ctx, fs.Arg(0), domainauth.Role(*role)); err != nil {
		return err
	}

	// If the promoted user is the signed-in user, the guard must see the
	// new tier on the next decision.
	identity := c.App.Store.State().Identity
	if identity != nil && identity.ID == fs.Arg(0) {
		if _, err := c.App.Resolver.Refresh(c.Ctx, *identity); err != nil {
			c.Logger.WarnContext(c.Ctx, "role refresh after promotion failed", "error", err)
		}
	}
	return nil
}

func cmdUpgradeGold(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("upgrade-gold", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := signIn(c, *email, *password); err != nil {
		return err
	}

	identity := *c.App.Store.State().Identity
	secret, err := c.App.Forum.Payments.CreateMembershipIntent(c.Ctx, 0)
	if err != nil {
		return err
	}
	c.Logger.InfoContext(c.Ctx, "membership intent created; confirm with the payment processor", "client_secret", secret)

	profile, err := c.App.Forum.Users.Get(c.Ctx, identity.Email)
	if err != nil {
		return err
	}
	if err := c.App.Forum.Payments.RecordUpgrade(c.Ctx, profile.ID); err != nil {
		return err
	}

	role, err := c.App.Resolver.Refresh(c.Ctx, identity)
	if err != nil {
		return err
	}
	return printJSON(map[string]domainauth.Role{"role": role}, "")
}
