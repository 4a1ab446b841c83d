package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/vova616/screenshot"

	"docling-web/api/internal/source"
	"docling-web/api/internal/util"
)

func snapCmd() *cobra.Command {
	var engineName string
	var prompt string
	var out string
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Capture the screen and convert it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := screenshot.CaptureScreen()
			if err != nil {
				return fmt.Errorf("capture screen: %w", err)
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return fmt.Errorf("encode capture: %w", err)
			}
			src := source.ImageSource{Kind: source.KindCamera, Data: buf.Bytes()}
			return runConvert(cmd, src, engineName, prompt, out, timeoutSec)
		},
	}
	addConvertFlags(cmd, &engineName, &prompt, &out, &timeoutSec)
	return cmd
}

func pasteCmd() *cobra.Command {
	var engineName string
	var prompt string
	var out string
	var timeoutSec int

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Convert the image referenced by the clipboard (data URL, http(s) URL, or file path)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := clipboard.ReadAll()
			if err != nil {
				return fmt.Errorf("read clipboard: %w", err)
			}
			src, err := clipboardSource(text)
			if err != nil {
				return err
			}
			return runConvert(cmd, src, engineName, prompt, out, timeoutSec)
		},
	}
	addConvertFlags(cmd, &engineName, &prompt, &out, &timeoutSec)
	return cmd
}

func clipboardSource(text string) (source.ImageSource, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return source.ImageSource{}, fmt.Errorf("clipboard is empty")
	case strings.HasPrefix(text, "data:"):
		data, _, err := util.DecodeBase64MaybeDataURL(text)
		if err != nil {
			return source.ImageSource{}, fmt.Errorf("clipboard data url: %w", err)
		}
		return source.ImageSource{Kind: source.KindClipboard, Data: data}, nil
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		return source.ImageSource{Kind: source.KindURL, URL: text}, nil
	default:
		data, err := os.ReadFile(text)
		if err != nil {
			return source.ImageSource{}, fmt.Errorf("clipboard does not reference an image: %w", err)
		}
		return source.ImageSource{Kind: source.KindClipboard, Data: data}, nil
	}
}
