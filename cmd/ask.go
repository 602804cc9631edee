package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurotrack/neurotrack/internal/assistant"
)

var askCmd = &cobra.Command{
	Use:   "ask [text...]",
	Short: "Talk to the health assistant",
	Long: `Send one message to the assistant and print the reply.

Without arguments, reads messages line by line from stdin until EOF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.assistant(cmd)
		if len(args) > 0 {
			return askOnce(cmd, svc, strings.Join(args, " "))
		}

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Print("> ")
		for scanner.Scan() {
			if text := strings.TrimSpace(scanner.Text()); text != "" {
				if err := askOnce(cmd, svc, text); err != nil {
					return err
				}
			}
			fmt.Print("\n> ")
		}
		fmt.Println()
		return scanner.Err()
	},
}

func askOnce(cmd *cobra.Command, svc *assistant.Service, text string) error {
	r, err := svc.Reply(cmd.Context(), text)
	if err != nil {
		return err
	}
	fmt.Println(r.Text)
	if r.Fallback {
		fmt.Fprintln(os.Stderr, "(offline reply)")
	}
	return nil
}
