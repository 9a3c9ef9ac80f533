package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mmcdole/anigo/internal/config"
	"github.com/mmcdole/anigo/internal/jikan"
)

// runSetup asks for the settings most people change, writes the config
// file and checks that the catalog answers
func runSetup(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	fmt.Println("Welcome to anigo!")
	fmt.Println()

	baseURL := cfg.API.BaseURL
	pageSize := strconv.Itoa(cfg.API.PageSize)
	driver := cfg.Storage.Driver
	dataPath := cfg.Storage.Path
	opener := cfg.Opener.Command

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog API").
				Description("Jikan v4 base URL").
				Value(&baseURL).
				Validate(func(s string) error {
					u, err := url.Parse(strings.TrimSpace(s))
					if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
						return errors.New("enter an http(s) URL")
					}
					return nil
				}),
			huh.NewInput().
				Title("Results per page").
				Description(fmt.Sprintf("1-%d", config.MaxPageSize)).
				Value(&pageSize).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > config.MaxPageSize {
						return fmt.Errorf("enter a number from 1 to %d", config.MaxPageSize)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("BoltDB file", "bolt"),
					huh.NewOption("SQLite file", "sqlite"),
				).
				Value(&driver),
			huh.NewInput().
				Title("Data directory").
				Description("Leave empty to keep the watch later list in memory").
				Value(&dataPath),
			huh.NewInput().
				Title("Browser command").
				Description("Leave empty to use the system default").
				Value(&opener),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	cfg.API.BaseURL = strings.TrimSpace(baseURL)
	cfg.API.PageSize, _ = strconv.Atoi(strings.TrimSpace(pageSize))
	cfg.Storage.Driver = driver
	cfg.Storage.Path = strings.TrimSpace(dataPath)
	cfg.Opener.Command = strings.TrimSpace(opener)

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Check reachability before saving so a typo is caught now
	var pingErr error
	err = spinner.New().
		Title("Contacting " + cfg.API.BaseURL + "...").
		Action(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			client := jikan.NewClient(cfg.API.BaseURL, jikan.Options{}, config.NullLogger())
			pingErr = client.Ping(ctx)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	if pingErr != nil {
		fmt.Printf("✗ Could not reach the catalog: %v\n", pingErr)
		fmt.Println("Saving anyway; check the URL or your connection.")
	} else {
		fmt.Println("✓ Catalog reachable")
	}

	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run anigo again to start browsing.")
	return nil
}
