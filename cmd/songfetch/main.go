package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lrstanley/go-ytdlp"

	"go.senan.xyz/songfetch"
	"go.senan.xyz/songfetch/cmd/internal/flags"
	"go.senan.xyz/songfetch/notifications"
	"go.senan.xyz/songfetch/ytdl"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage:\n")
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<flags>] csv <songs.csv>\n", flag.CommandLine.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<flags>] manual\n\n", flag.CommandLine.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	defer flags.ExitError()

	var (
		mb         = flags.MusicBrainz()
		lyricsSrc  = flags.Lyrics()
		it         = flags.ITunes()
		downloader = flags.Downloader()
		failureLog = flags.FailureLog()
		notifs     = flags.Notifications()
	)
	flags.EnvPrefix("songfetch")
	flags.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var src songfetch.RequestSource
	switch command := flag.Arg(0); command {
	case "csv":
		path := flag.Arg(1)
		if path == "" {
			slog.Error("need a csv file")
			return
		}
		f, err := os.Open(path)
		if err != nil {
			slog.Error("open csv file", "err", err)
			return
		}
		defer f.Close()

		src, err = songfetch.NewCSVSource(f)
		if err != nil {
			slog.Error("read csv header", "err", err)
			return
		}
	case "manual":
		fmt.Println("Manual song downloader. Leave the URL empty to quit.")
		src = songfetch.NewPromptSource(os.Stdin, os.Stdout)
	default:
		slog.Error("unknown command", "command", command)
		return
	}

	downloader.OnProgress = func(p ytdl.Progress) {
		if p.Status == ytdl.StatusFinished {
			fmt.Printf("\rDownloaded %s in %ds%10s\n", p.Name, int(p.Elapsed.Seconds()), "")
			return
		}
		fmt.Printf("\rDownloading %s %3.0f%% %ds", p.Name, p.Fraction*100, int(p.Elapsed.Seconds()))
	}

	// fetch a yt-dlp binary if the host doesn't have one
	ytdlp.MustInstall(ctx, nil)

	runner := songfetch.Runner{
		Acquirer:       downloader,
		Lyrics:         lyricsSrc,
		Albums:         mb.MBClient,
		Covers:         flags.CoverArt(mb, it),
		FailureLogPath: *failureLog,
	}

	res, err := runner.ProcessBatch(ctx, src)
	if err != nil {
		slog.ErrorContext(ctx, "processing batch", "err", err)
		return
	}

	if len(res.Failures) > 0 {
		slog.ErrorContext(ctx, "batch finished with failures",
			"done", res.Processed, "failed", len(res.Failures), "failure_log", *failureLog)
		notifs.Sendf(ctx, notifications.Errors, "batch finished, %d songs done, %d failed", res.Processed, len(res.Failures))
		return
	}

	slog.InfoContext(ctx, "batch finished", "done", res.Processed)
	notifs.Sendf(ctx, notifications.Complete, "batch finished, %d songs done", res.Processed)
}
