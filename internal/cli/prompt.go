package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// promptLine asks for a value on stdin when one was not given as a flag.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
