package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/dzfranklin/seoulmetro"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"
)

func usageAndDie() {
	fmt.Println("Example usage:\n" +
		"    seoulmetro --data data/SeoulMetro_ --raw 202004.csv,202005.csv --map Stations.csv --frames-dir frames\n" +
		"    seoulmetro --raw 202004.csv --from 2020-04 --to 2020-04 --play\n" +
		"    seoulmetro --raw 202004.csv --db merged.db --csv merged.csv --clip-feature seoul.json")
	os.Exit(1)
}

type options struct {
	pre       seoulmetro.PreprocessOpts
	from, to  string
	sizeScope seoulmetro.SizeScope
	framesDir string
	dbPath    string
	csvPath   string
	play      bool
	delay     time.Duration
}

func main() {
	// Values in .env become flag defaults
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn(fmt.Sprintf("Ignoring .env: %s", err))
	}

	dataPath := pflag.StringP("data", "d", getEnv("SEOULMETRO_DATA", "data/SeoulMetro_"), "Prefix prepended to every input file name")
	rawFiles := pflag.StringSliceP("raw", "r", getEnvList("SEOULMETRO_RAW"), "Ridership files in month order")
	mapFile := pflag.StringP("map", "m", getEnv("SEOULMETRO_MAP", "Stations.csv"), "Station coordinate file")
	configPath := pflag.String("config", getEnv("SEOULMETRO_CONFIG", ""), "YAML file overriding the line aliases and colors")
	encodingName := pflag.String("encoding", "utf-8", "Input encoding (utf-8 or euc-kr)")
	globalSort := pflag.Bool("global-sort", false, "Sort ridership by date across files instead of within each file")
	clipFeaturePath := pflag.String("clip-feature", "", "Only keep stations inside the GeoJSON feature in the file specified")

	from := pflag.String("from", "", "First month to show (YYYY-MM), defaults to the earliest")
	to := pflag.String("to", "", "Last month to show (YYYY-MM), defaults to the latest")
	sizeScope := pflag.String("size-scope", "frame", "Normalize circle sizes per frame or across the selection")
	framesDir := pflag.StringP("frames-dir", "o", "", "Directory to write one GeoJSON file per date to")
	dbPath := pflag.String("db", "", "Path to write the merged table to as SQLite")
	csvPath := pflag.String("csv", "", "Path to write the merged table to as CSV")
	play := pflag.Bool("play", false, "Render frames one at a time with --delay between them")
	delay := pflag.Duration("delay", seoulmetro.DefaultFrameDelay, "Pause between frames when playing")
	verbose := pflag.BoolP("verbose", "v", false, "Log every dropped station and line")

	pflag.Parse()

	if len(*rawFiles) == 0 {
		usageAndDie()
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	opts, err := buildOptions(*dataPath, *rawFiles, *mapFile, *configPath, *encodingName, *globalSort, *clipFeaturePath, *sizeScope)
	if err == nil {
		opts.from, opts.to = *from, *to
		opts.framesDir = *framesDir
		opts.dbPath = *dbPath
		opts.csvPath = *csvPath
		opts.play = *play
		opts.delay = *delay

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = run(ctx, opts)
		stop()
	}

	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	} else {
		fmt.Println("All done")
	}
}

func buildOptions(dataPath string, rawFiles []string, mapFile, configPath, encodingName string,
	globalSort bool, clipFeaturePath, sizeScope string) (*options, error) {
	encoding, err := seoulmetro.ParseEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	scope, err := seoulmetro.ParseSizeScope(sizeScope)
	if err != nil {
		return nil, err
	}

	cfg := seoulmetro.DefaultConfig()
	if configPath != "" {
		cfg, err = seoulmetro.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	var clipFeature []byte
	if clipFeaturePath != "" {
		clipFeature, err = os.ReadFile(clipFeaturePath)
		if err != nil {
			return nil, err
		}
	}

	return &options{
		pre: seoulmetro.PreprocessOpts{
			BasePath:       dataPath,
			RidershipFiles: rawFiles,
			StationFile:    mapFile,
			Config:         cfg,
			Load:           seoulmetro.LoadOpts{SortGlobally: globalSort, Encoding: encoding},
			ClipFeature:    string(clipFeature),
			DropLogLevel:   slog.LevelDebug,
		},
		sizeScope: scope,
	}, nil
}

func run(ctx context.Context, opts *options) error {
	table, err := seoulmetro.Preprocess(&opts.pre)
	if err != nil {
		return err
	}

	if opts.dbPath != "" {
		if err := seoulmetro.ExportDB(table.Rows, table.Report, opts.dbPath); err != nil {
			return err
		}
	}
	if opts.csvPath != "" {
		if err := seoulmetro.ExportCSVFile(table.Rows, opts.csvPath); err != nil {
			return err
		}
	}
	if opts.framesDir == "" && !opts.play {
		return nil
	}

	months := seoulmetro.Months(table.Rows)
	if len(months) == 0 {
		slog.Warn("No rows left to render")
		return nil
	}
	from, to := monthRange(months, opts.from, opts.to)
	selected, err := seoulmetro.SelectMonths(table.Rows, from, to)
	if err != nil {
		return err
	}
	if from == to {
		slog.Info(fmt.Sprintf("Ridership for %s", from))
	} else {
		slog.Info(fmt.Sprintf("Ridership from %s to %s", from, to))
	}

	frames := seoulmetro.BuildFrames(selected, &seoulmetro.FrameOpts{SizeScope: opts.sizeScope})

	if !opts.play {
		return seoulmetro.WriteFrames(opts.framesDir, frames)
	}

	render := logFrame
	if opts.framesDir != "" {
		render, err = seoulmetro.GeoJSONRenderer(opts.framesDir)
		if err != nil {
			return err
		}
	}
	return seoulmetro.Play(ctx, frames, opts.delay, render)
}

// monthRange fills an unset end of the range from the available months.
func monthRange(months []string, from, to string) (string, string) {
	if from == "" && len(months) > 0 {
		from = months[0]
	}
	if to == "" && len(months) > 0 {
		to = months[len(months)-1]
	}
	return from, to
}

func logFrame(frame seoulmetro.Frame) error {
	var busiest *seoulmetro.FramePoint
	for i := range frame.Points {
		if busiest == nil || frame.Points[i].Users() > busiest.Users() {
			busiest = &frame.Points[i]
		}
	}
	if busiest == nil {
		slog.Info(fmt.Sprintf("Current date: %s (no stations)", frame.Date))
		return nil
	}
	slog.Info(fmt.Sprintf("Current date: %s", frame.Date),
		"stations", len(frame.Points),
		"busiest", busiest.Station,
		"line", busiest.Line,
		"users", busiest.Users())
	return nil
}

// loadDotEnv is a no-op when the file doesn't exist.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
