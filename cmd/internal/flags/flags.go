package flags

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.senan.xyz/flagconf"
	"go.senan.xyz/songfetch"
	"go.senan.xyz/songfetch/coverart"
	"go.senan.xyz/songfetch/itunes"
	"go.senan.xyz/songfetch/lyrics"
	"go.senan.xyz/songfetch/musicbrainz"
	"go.senan.xyz/songfetch/notifications"
	"go.senan.xyz/songfetch/ytdl"
)

func EnvPrefix(prefix string) {
	flagconf.ReadEnvPrefix = func(_ *flag.FlagSet) string {
		return prefix
	}
}

func Parse() {
	userConfig, _ := os.UserConfigDir()
	defaultConfigPath := filepath.Join(userConfig, songfetch.Name, "config")
	configPath := flag.String("config-path", defaultConfigPath, "path config file")

	printVersion := flag.Bool("version", false, "print the version")
	printConfig := flag.Bool("config", false, "print the parsed config")

	flag.TextVar(&logLevel, "log-level", &logLevel, "set the logging level")
	flag.DurationVar(&httpClient.Timeout, "http-timeout", 10*time.Second, "timeout for each http call")

	flag.Parse()
	flagconf.ParseEnv()
	flagconf.ParseConfig(*configPath)

	if *printVersion {
		fmt.Printf("%s %s\n", flag.CommandLine.Name(), songfetch.Version)
		os.Exit(0)
	}
	if *printConfig {
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("%-16s %s\n", f.Name, f.Value)
		})
		os.Exit(0)
	}
}

type MusicBrainzClient struct {
	*musicbrainz.MBClient
	*musicbrainz.CAAClient
}

func MusicBrainz() MusicBrainzClient {
	var mb musicbrainz.MBClient
	mb.HTTPClient = http.DefaultClient
	mb.UserAgent = userAgent
	flag.StringVar(&mb.BaseURL, "mb-base-url", `https://musicbrainz.org/ws/2/`, "musicbrainz base url")
	flag.DurationVar(&mb.RateLimit, "mb-rate-limit", 1*time.Second, "musicbrainz rate limit duration")

	var caa musicbrainz.CAAClient
	caa.HTTPClient = http.DefaultClient
	flag.StringVar(&caa.BaseURL, "caa-base-url", `https://coverartarchive.org/`, "coverartarchive base url")
	flag.DurationVar(&caa.RateLimit, "caa-rate-limit", 0, "coverartarchive rate limit duration")

	return MusicBrainzClient{&mb, &caa}
}

func Lyrics() lyrics.Source {
	var ovh lyrics.LyricsOVH
	ovh.HTTPClient = http.DefaultClient
	flag.StringVar(&ovh.BaseURL, "lyrics-ovh-base-url", `https://api.lyrics.ovh/v1`, "lyrics.ovh base url")

	var lrclib lyrics.LRCLib
	lrclib.HTTPClient = http.DefaultClient
	flag.StringVar(&lrclib.BaseURL, "lrclib-base-url", `https://lrclib.net`, "lrclib base url")

	return lyrics.ChainSource{&ovh, &lrclib}
}

func ITunes() *itunes.Client {
	var it itunes.Client
	it.HTTPClient = http.DefaultClient
	flag.StringVar(&it.BaseURL, "itunes-base-url", `https://itunes.apple.com`, "itunes search api base url")
	return &it
}

// CoverArt wires the two cover tiers in their fixed precedence, cover art
// archive first, then the itunes catalog.
func CoverArt(mb MusicBrainzClient, it *itunes.Client) coverart.Source {
	return coverart.ChainSource{
		coverart.MusicBrainz{MB: mb.MBClient, CAA: mb.CAAClient},
		coverart.ITunes{Client: it},
	}
}

func Downloader() *ytdl.Downloader {
	var dl ytdl.Downloader
	flag.StringVar(&dl.Dir, "dest-dir", "downloads", "directory to download songs to")
	flag.StringVar(&dl.AudioFormat, "audio-format", "flac", "target audio codec")
	flag.StringVar(&dl.AudioQuality, "audio-quality", "0", "target audio quality, 0 is best")
	return &dl
}

func FailureLog() *string {
	return flag.String("failure-log", "download_failures.log", "file to write failed downloads to")
}

func Notifications() *notifications.Notifications {
	var r notifications.Notifications
	flag.Var(&notificationsParser{&r}, "notification-uri", "add a shoutrrr notification uri for an event")
	return &r
}
