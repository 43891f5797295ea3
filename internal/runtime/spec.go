package runtime

import (
	"fmt"
	"slices"
	"strings"
)

// Spec describes how to recover the artifact a runtime launches from its command line arguments.
type Spec struct {
	ExtractPackageName func(args []string) (string, error)
}

// Specs returns the extraction rules for every runtime whose arguments name an artifact.
func Specs() map[Runtime]Spec {
	return map[Runtime]Spec{
		Docker: {
			ExtractPackageName: func(args []string) (string, error) {
				// Flags that take a value (e.g. -e GITHUB_TOKEN).
				flagsWithValues := map[string]struct{}{
					"-e":        {},
					"--env":     {},
					"-v":        {},
					"--volume":  {},
					"-p":        {},
					"--publish": {},
				}

				// Skip the leading 'docker run -i --rm' prelude.
				i := 0
				for i < len(args) && slices.Contains([]string{"docker", "run", "-i", "--rm"}, args[i]) {
					i++
				}

				for ; i < len(args); i++ {
					arg := args[i]
					if strings.HasPrefix(arg, "-") {
						if _, takesValue := flagsWithValues[arg]; takesValue {
							i++
						}
						continue
					}
					return arg, nil
				}

				return "", fmt.Errorf("no %s image found", Docker)
			},
		},
		NPX: {
			ExtractPackageName: func(args []string) (string, error) {
				for _, arg := range args {
					if strings.HasPrefix(arg, "@") || (strings.Contains(arg, "/") && !strings.HasPrefix(arg, "-")) {
						return strings.TrimSuffix(arg, "@latest"), nil
					}
				}

				// First non-flag value.
				for _, arg := range args {
					if !strings.HasPrefix(arg, "-") {
						return arg, nil
					}
				}

				return "", fmt.Errorf("no %s package found", NPX)
			},
		},
	}
}
