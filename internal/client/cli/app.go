// Package cli реализует команды blogctl: register, login, logout и whoami.
//
// Команды работают через session.Session: она восстанавливается из
// локального хранилища перед каждой командой и сохраняет результат входа.
package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/blogapp/internal/client/logs"
	"github.com/magabrotheeeer/blogapp/internal/client/session"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

// Server — вызовы сервера, которые CLI делает в обход сессии.
type Server interface {
	Logout(ctx context.Context) error
	Me(ctx context.Context, token string) (*models.Profile, error)
}

// App связывает команды с сессией и сервером.
type App struct {
	session *session.Session
	server  Server
	printer *logs.Printer
	in      *bufio.Reader
	prompt  io.Writer

	verbose bool
}

// NewApp создает App. Ввод читается из in, подсказки пишутся в prompt.
func NewApp(sess *session.Session, server Server, printer *logs.Printer, in io.Reader, prompt io.Writer) *App {
	return &App{
		session: sess,
		server:  server,
		printer: printer,
		in:      bufio.NewReader(in),
		prompt:  prompt,
	}
}

// SetVerbose задаёт подробный вывод по умолчанию; флаг --verbose его переопределяет.
func (a *App) SetVerbose(v bool) {
	a.verbose = v
}

// RootCommand собирает дерево команд.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Command line client for blogapp accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.printer.ConfigureVerbosity(a.verbose)
			a.session.Init(cmd.Context())
			select {
			case <-a.session.Ready():
				return nil
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", a.verbose, "print verbose output")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
	)
	return root
}

// Execute выполняет команду с аргументами args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
