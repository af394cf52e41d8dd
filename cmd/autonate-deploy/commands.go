package main

import (
	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/build"
	"github.com/DeganAI/Autonate/pkg/deploy"
	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/DeganAI/Autonate/pkg/docker"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/DeganAI/Autonate/pkg/org"
	"github.com/DeganAI/Autonate/pkg/pipeline"
	"github.com/DeganAI/Autonate/pkg/platform"
	"github.com/DeganAI/Autonate/pkg/registry"
	"github.com/DeganAI/Autonate/pkg/rollback"
	"github.com/DeganAI/Autonate/pkg/validate"
	"github.com/DeganAI/Autonate/pkg/verify"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func manifestFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "manifest",
		Usage: "organization manifest path",
	}
}

func (d *driver) deployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "validate, build, publish and deploy every agent, then verify the deployment",
		Flags: []cli.Flag{
			manifestFlag(),
			&cli.StringFlag{
				Name:  "build-root",
				Usage: "directory the per-agent build contexts are written under",
			},
			&cli.StringFlag{
				Name:  "environment",
				Usage: "deployment environment, staging or production",
			},
			&cli.BoolFlag{
				Name:  "prune-on-failure",
				Usage: "remove this run's images when the deployment fails",
			},
		},
		Action: d.deploy,
	}
}

func (d *driver) deploy(c *cli.Context) error {
	creds, err := d.credentials(c)
	if err != nil {
		return err
	}
	cfg, err := d.configure(c, creds)
	if err != nil {
		return err
	}

	id := deployid.New(d.now())
	ids := agents.Autonate()
	tool := docker.New(d.dockerRunner(), "")
	client := platform.FromConfig(logging.New("platform"), cfg)

	log := logging.New("deploy")
	log.WithFields(logrus.Fields{
		"deployment":  id,
		"environment": cfg.Environment(),
		"workspace":   cfg.Workspace(),
	}).Info("deploying Autonate Liberation Organization")

	hooks := rollback.Chain{&rollback.Logging{Log: logging.New("rollback")}}
	if c.Bool("prune-on-failure") {
		hooks = append(hooks, &rollback.PruneImages{
			Log:      logging.New("rollback"),
			Tool:     tool,
			Agents:   ids,
			Org:      cfg.Org(),
			Registry: cfg.Registry(),
		})
	}

	components := pipeline.Components{
		Validator: validate.New(logging.New("validate"), creds, validate.RequiredCredentials, client, cfg.Endpoint()),
		Builder:   build.New(logging.New("build"), tool, ids, cfg.BuildRoot(), cfg.Org(), id),
		Publisher: registry.New(logging.New("registry"), tool, ids, cfg.Registry(), cfg.APIKey(), cfg.Org(), id),
		Deployer: deploy.New(logging.New("deploy"), client, cfg.ManifestPath(),
			deploy.WithPolling(cfg.PollInterval(), cfg.ReadyTimeout())),
		Verifier: verify.NewVerifier(logging.New("verify"), client, ids),
		Smoke:    verify.NewSmokeRunner(logging.New("smoke"), client),
	}

	state, err := pipeline.New(log, id, hooks, components.Stages()...).Run(c.Context)
	if err != nil {
		return err
	}
	log.WithField("organization", state.OrganizationID).Infof("agents available at %s", cfg.AgentsURL())
	return nil
}

func (d *driver) validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check credentials and platform connectivity",
		Action: func(c *cli.Context) error {
			creds, err := d.credentials(c)
			if err != nil {
				return err
			}
			cfg, err := d.configure(c, creds)
			if err != nil {
				return err
			}
			client := platform.FromConfig(logging.New("platform"), cfg)
			v := validate.New(logging.New("validate"), creds, validate.RequiredCredentials, client, cfg.Endpoint())
			return v.Validate(c.Context)
		},
	}
}

func (d *driver) manifestCommand() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "work with the organization manifest",
		Subcommands: []*cli.Command{
			{
				Name:  "render",
				Usage: "write the built-in organization definition",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: `output path, "-" for stdout; defaults to the configured manifest path`,
					},
				},
				Action: d.renderManifest,
			},
			{
				Name:      "check",
				Usage:     "validate a manifest against the agent registry",
				ArgsUsage: "[path]",
				Flags:     []cli.Flag{manifestFlag()},
				Action:    d.checkManifest,
			},
		},
	}
}

func (d *driver) renderManifest(c *cli.Context) error {
	creds, err := d.credentials(c)
	if err != nil {
		return err
	}
	cfg, err := d.configure(c, creds)
	if err != nil {
		return err
	}

	o := org.ForConfig(cfg)
	if err := o.Validate(agents.Autonate()); err != nil {
		return err
	}

	out := c.String("out")
	if out == "-" {
		return o.Encode(d.stdout)
	}
	if out == "" {
		out = cfg.ManifestPath()
	}
	if err := o.WriteFile(out); err != nil {
		return err
	}
	logging.New("manifest").WithField("path", out).Info("manifest written")
	return nil
}

func (d *driver) checkManifest(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		creds, err := d.credentials(c)
		if err != nil {
			return err
		}
		cfg, err := d.configure(c, creds)
		if err != nil {
			return err
		}
		path = cfg.ManifestPath()
	}

	o, err := org.Load(path)
	if err != nil {
		return err
	}
	if err := o.Validate(agents.Autonate()); err != nil {
		return err
	}
	logging.New("manifest").WithFields(logrus.Fields{
		"path":      path,
		"agents":    len(o.Agents),
		"workflows": len(o.Workflows),
	}).Info("manifest is valid")
	return nil
}
