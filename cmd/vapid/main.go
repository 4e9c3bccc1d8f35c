// SPDX-License-Identifier: Apache-2.0
package vapid

import (
	"fmt"

	"git.rob.mx/nidito/chinampa/pkg/command"
	webpush "github.com/SherClockHolmes/webpush-go"
)

var GenerateCommand = &command.Command{
	Path:        []string{"vapid", "generate"},
	Summary:     "Generates a VAPID key pair",
	Description: "Prints a fresh key pair to export as `WEB_PUSH_PUBLIC_KEY` and `WEB_PUSH_PRIVATE_KEY`.",
	Action: func(cmd *command.Command) error {
		private, public, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return fmt.Errorf("could not generate keys: %s", err)
		}

		fmt.Printf("WEB_PUSH_PUBLIC_KEY=%s\n", public)
		fmt.Printf("WEB_PUSH_PRIVATE_KEY=%s\n", private)
		return nil
	},
}
