// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/entitlements/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Entitlement engine application",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a user account for bootstrapping",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Unique username",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "User email address",
					},
					&cli.StringFlag{
						Name:  "phone",
						Usage: "User phone number (optional)",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Account password",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateUser(
						ctx,
						cmd.String("username"),
						cmd.String("email"),
						cmd.String("phone"),
						cmd.String("password"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "create-group",
				Usage: "Create a group with an existing user as its OWNER",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Unique group name",
					},
					&cli.StringFlag{
						Name:     "owner",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "Username of the group owner",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateGroup(ctx, cmd.String("name"), cmd.String("owner"))
				},
			},
			{
				Name:  "add-member",
				Usage: "Enroll a user in a group with a role",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "group-id",
						Aliases:  []string{"g"},
						Required: true,
						Usage:    "Group ID",
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Username of the user to enroll",
					},
					&cli.StringFlag{
						Name:     "role",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "Role to assign: OWNER, DEVELOPER, or VIEWER",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunAddMember(
						ctx,
						cmd.String("group-id"),
						cmd.String("username"),
						cmd.String("role"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
