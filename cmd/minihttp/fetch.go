package main

//
// The fetch subcommand
//

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/iotnet/minihttp/internal/rawhttp"
	"github.com/spf13/cobra"
)

func newFetchCommand(globalOptions *Options, stdout io.Writer) *cobra.Command {
	var target targetOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Sends a single request and prints the response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchMain(cmd, globalOptions, &target, stdout)
		},
	}
	target.addFlags(cmd.Flags())
	return cmd
}

func fetchMain(cmd *cobra.Command, globalOptions *Options, target *targetOptions, stdout io.Writer) error {
	cfg, err := loadConfig(globalOptions)
	if err != nil {
		return err
	}
	req, err := target.newRequest()
	if err != nil {
		return err
	}
	client := rawhttp.NewClient(cfg.ClientConfig(log.Log))
	resp, err := client.Do(cmd.Context(), req)
	if err != nil {
		log.WithFields(failureFields(err)).Warn("fetch failed")
		if raw := resp.Raw(); len(raw) > 0 {
			log.Debugf("received %d bytes before failing", len(raw))
		}
		return err
	}
	defer resp.Release()
	printResponse(stdout, resp)
	return nil
}

// printResponse writes a summary of resp to w.
func printResponse(w io.Writer, resp *rawhttp.Response) {
	fmt.Fprintf(w, "status: %s\n", statusString(resp.StatusCode))
	if resp.Chunked {
		fmt.Fprintf(w, "framing: chunked\n")
	}
	if cookie, ok := resp.Cookie(); ok {
		fmt.Fprintf(w, "cookie: %s\n", cookie)
	}
	fmt.Fprintf(w, "length: %d\n\n", resp.ContentLength)
	if body := resp.Body(); len(body) > 0 {
		w.Write(body)
		fmt.Fprint(w, "\n")
	}
}

// statusString colors the status code according to its class.
func statusString(code int) string {
	switch {
	case code >= 500:
		return color.RedString("%d", code)
	case code >= 400:
		return color.YellowString("%d", code)
	case code >= 300:
		return color.CyanString("%d", code)
	default:
		return color.GreenString("%d", code)
	}
}
