package config

import (
	"fmt"
	"os"
)

// Template is a commented envctl config holding the defaults.
const Template = `# envctl configuration

# emit envelope type tags (key 0)
type_tags = false

# "hex" or "raw"
output = "hex"

# wrap each message in a length-delimited frame
framed = false
max_frame_bytes = 8388608

log_level = "warn"
`

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}
