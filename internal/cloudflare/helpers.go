package cloudflare

import (
	"fmt"
	"io"
	"strings"
)

func joinErrors(apiErrors []struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}) string {
	parts := make([]string, 0, len(apiErrors))
	for _, apiError := range apiErrors {
		parts = append(parts, fmt.Sprintf("error %d: %s", apiError.Code, apiError.Message))
	}
	return strings.Join(parts, "; ")
}

func bodyToSingleLine(body io.Reader) (s string) {
	b, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	return toSingleLine(string(b))
}

func toSingleLine(s string) (line string) {
	line = strings.ReplaceAll(s, "\n", " ")
	line = strings.ReplaceAll(line, "\r", "")
	return strings.TrimSpace(line)
}
