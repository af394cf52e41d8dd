package main

import (
	"context"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/DeganAI/Autonate/pkg/config"
	"github.com/DeganAI/Autonate/pkg/docker"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/DeganAI/Autonate/pkg/secrets"
	"github.com/DeganAI/Autonate/pkg/sigcontext"
	"github.com/DeganAI/Autonate/pkg/validate"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// keyringService is the keyring entry credentials are stored under.
const keyringService = "autonate-deploy"

func main() {
	os.Exit(_main())
}

func _main() int {
	d := &driver{
		env:    secrets.Environ(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
	return d.run(os.Args)
}

// driver carries the process surroundings so tests can replace them.
type driver struct {
	// env is the process environment captured at startup.
	env    secrets.Map
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	// runner executes docker; nil runs the real binary.
	runner docker.Runner
}

func (d *driver) run(args []string) int {
	if err := logging.Set(splitOutput(d.stdout, d.stderr)); err != nil {
		return 1
	}
	log := logging.New("main")

	ctx, cancel := sigcontext.WithSignalCancel(context.Background(), log, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := d.app().RunContext(ctx, args); err != nil {
		log.WithError(err).WithField("kind", errdefs.Kind(err)).Error("command failed")
		return 1
	}
	return 0
}

func (d *driver) app() *cli.App {
	return &cli.App{
		Name:      "autonate-deploy",
		Usage:     "deploy the Autonate Liberation Organization to Compute3",
		Writer:    d.stdout,
		ErrWriter: d.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "TOML config file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file consulted for credentials missing from the environment",
			},
			&cli.BoolFlag{
				Name:  "keyring",
				Usage: "fall back to the OS keyring for credentials",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log line format, text or json",
			},
		},
		Before: func(c *cli.Context) error {
			level := "info"
			if c.Bool("debug") {
				level = "debug"
			}
			if err := logging.Set(logging.Level(level)); err != nil {
				return err
			}
			return logging.Set(logging.Format(c.String("log-format")))
		},
		Commands: []*cli.Command{
			d.deployCommand(),
			d.validateCommand(),
			d.manifestCommand(),
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// credentials resolves every name the driver reads once, from the process
// environment, then the dotenv file, then optionally the keyring.
func (d *driver) credentials(c *cli.Context) (secrets.Map, error) {
	dotenv, err := secrets.ReadDotenv(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	chain := secrets.Chain{d.env, dotenv}
	if c.Bool("keyring") {
		chain = append(chain, secrets.Keyring{Service: keyringService})
	}

	names := append([]string{config.EnvEndpoint, config.EnvWorkspace, config.EnvEnvironment}, validate.RequiredCredentials...)
	return secrets.Snapshot(chain, names...), nil
}

// configure loads the config file, environment overrides and flags, in
// increasing precedence.
func (d *driver) configure(c *cli.Context, creds secrets.Source) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"), creds)
	if err != nil {
		return nil, err
	}
	cfg, err = cfg.With(config.Values{
		ManifestPath: c.String("manifest"),
		BuildRoot:    c.String("build-root"),
		Environment:  c.String("environment"),
	})
	return cfg, errors.WithMessage(err, "apply flags")
}

func (d *driver) dockerRunner() docker.Runner {
	if d.runner != nil {
		return d.runner
	}
	return &docker.Exec{Log: logging.New("docker")}
}
