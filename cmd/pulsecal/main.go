package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/ekazakov/pulsecal/config"
	"github.com/ekazakov/pulsecal/internal/clients/caldav"
	"github.com/ekazakov/pulsecal/internal/clients/travel"
	"github.com/ekazakov/pulsecal/internal/domain"
	"github.com/ekazakov/pulsecal/internal/engine"
	"github.com/ekazakov/pulsecal/internal/ics"
	"github.com/ekazakov/pulsecal/internal/scheduler"
	"github.com/ekazakov/pulsecal/internal/service"
	"github.com/ekazakov/pulsecal/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	watch := flag.Bool("watch", false, "keep running and re-analyze on the configured cron schedule")
	week := flag.Bool("week", false, "analyze the coming week instead of today")
	trend := flag.Bool("trend", false, "print recent health scores and exit")
	flag.Parse()

	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	travelClient := travel.NewClient(cfg.TravelAPIURL, cfg.TravelAPIToken)
	eng := engine.New(travelClient)

	sources := buildSources(cfg)
	if len(sources) == 0 {
		log.Printf("No calendar sources configured (%s)", cfg.SourcesPath)
	}

	analysisSvc := service.NewAnalysisService(store, eng, sources, cfg.HistoryDays)

	if *trend {
		printTrend(analysisSvc)
		return
	}

	if *watch {
		runWatch(cfg, analysisSvc)
		return
	}

	runOnce(cfg, analysisSvc, *week)
}

// buildSources instantiates a client per configured source.
func buildSources(cfg *config.Config) []service.CalendarSource {
	fetcher := ics.NewFetcher()

	var sources []service.CalendarSource
	for _, sc := range cfg.Sources {
		tag := domain.Source(sc.Tag)
		switch sc.Kind {
		case "caldav":
			client := caldav.NewClient(sc.URL, sc.Username, sc.Password)
			sources = append(sources, service.NewCalDAVSource(sc.Name, tag, client, sc.CalendarPath))
		case "ics":
			sources = append(sources, service.NewICSSource(tag, fetcher, ics.Source{
				ID:   sc.Name,
				Name: sc.Name,
				URL:  sc.URL,
			}))
		}
	}
	return sources
}

func runOnce(cfg *config.Config, analysisSvc *service.AnalysisService, week bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().In(cfg.Timezone)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, cfg.Timezone)
	end := start.AddDate(0, 0, 1)
	if week {
		end = start.AddDate(0, 0, 7)
	}

	result, err := analysisSvc.RunAnalysis(ctx, start, end)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printReport(result)
}

func runWatch(cfg *config.Config, analysisSvc *service.AnalysisService) {
	sched := scheduler.New(cfg, analysisSvc)
	sched.SetSink(consoleSink{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	log.Println("PulseCal watching")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sched.Stop()
}

// consoleSink prints scheduled-run reports to stdout.
type consoleSink struct{}

func (consoleSink) Publish(report string) error {
	_, err := os.Stdout.WriteString(report)
	return err
}

func printReport(result *domain.AnalysisResult) {
	headline := color.New(color.FgGreen, color.Bold)
	switch {
	case result.Health.Overall < 40:
		headline = color.New(color.FgRed, color.Bold)
	case result.Health.Overall < 70:
		headline = color.New(color.FgYellow, color.Bold)
	}
	headline.Printf("Schedule health: %d/100\n", result.Health.Overall)

	// The headline is re-rendered in color; skip the plain first line.
	report := service.FormatReport(result)
	if idx := indexAfterFirstLine(report); idx > 0 {
		report = report[idx:]
	}
	os.Stdout.WriteString(report)
}

func indexAfterFirstLine(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func printTrend(analysisSvc *service.AnalysisService) {
	scores, err := analysisSvc.ScoreTrend(14)
	if err != nil {
		log.Fatalf("Failed to load trend: %v", err)
	}
	if len(scores) == 0 {
		log.Println("No analysis history yet")
		return
	}
	for _, s := range scores {
		c := color.New(color.FgGreen)
		switch {
		case s < 40:
			c = color.New(color.FgRed)
		case s < 70:
			c = color.New(color.FgYellow)
		}
		c.Printf("%3d ", s)
	}
	os.Stdout.WriteString("\n")
}
