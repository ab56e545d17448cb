package kafka

import (
	"fmt"
	"os"
)

// logClose closes c and logs a failure to stderr rather than discarding it,
// grounded on rogpeppe-contrib-kt's logClose helper (referenced throughout
// consume.go/topic.go but absent from this pack's retrieved subset;
// reimplemented in the same idiom).
func logClose(name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close %s err=%v\n", name, err)
	}
}
