package cli

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/energyplus-tools/epwrap/internal/config"
	"github.com/energyplus-tools/epwrap/internal/installer"
	"github.com/energyplus-tools/epwrap/internal/registry"
	"github.com/energyplus-tools/epwrap/internal/releases"
	"github.com/energyplus-tools/epwrap/internal/report"
)

// handleInstall ensures an EnergyPlus distribution is present and records
// it in the install registry. The installer URL comes either from --url
// or is resolved from GitHub releases via --version.
func handleInstall(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	url := c.String("url")
	version := c.String("version")
	if url == "" && version == "" {
		return fmt.Errorf("either --url or --version is required")
	}
	if url == "" {
		client, err := releases.NewClient(c.String("token"), cfg.Releases.Repository)
		if err != nil {
			return err
		}
		url, err = client.ResolveInstallerURL(c.Context, version)
		if err != nil {
			return err
		}
		log.Info("resolved installer URL", "version", version, "url", url)
	}

	target := c.String("target")
	if target == "" {
		target = cfg.TargetFolder
	}
	cache := c.String("cache")
	if cache == "" {
		cache = cfg.InstallerCache
	}

	root, err := installer.EnsureRoot(c.Context, url, installer.Options{
		TargetDir:      target,
		InstallerCache: cache,
		LockTimeout:    cfg.Install.GetLockTimeout(),
		StepTimeout:    cfg.Install.GetStepTimeout(),
		Logger:         log,
	})
	if err != nil {
		return err
	}

	if err := recordInstall(cfg, target, url, root); err != nil {
		// The distribution is installed either way; a registry problem
		// should not fail the command.
		log.Warn("failed to record install in registry", "error", err)
	}

	fmt.Fprintln(c.App.Writer, root)
	return nil
}

func recordInstall(cfg *config.Config, target, url, root string) error {
	info, err := installer.ParseInstallerURL(url)
	if err != nil {
		return err
	}
	if target == "" {
		target = installer.DefaultTargetDir()
	}

	db, err := registry.Open(cfg.RegistryPath(target))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.RecordInstall(&registry.Install{
		Version:   info.Version,
		Revision:  info.Revision,
		Platform:  info.Platform,
		SourceURL: url,
		RootPath:  root,
	})
}

// handleReport prints a summary of the tables in an HTML report.
func handleReport(c *cli.Context) error {
	_, _, err := setup(c)
	if err != nil {
		return err
	}

	parsed, err := report.ParseHTMLReport(c.String("file"))
	if err != nil {
		return err
	}

	caser := cases.Title(language.English)

	sections := parsed.SectionNames()
	sort.Strings(sections)
	for _, section := range sections {
		fmt.Fprintf(c.App.Writer, "%s\n", caser.String(section))
		titles := make([]string, 0, len(parsed.Sections[section]))
		for title := range parsed.Sections[section] {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			table := parsed.Sections[section][title]
			fmt.Fprintf(c.App.Writer, "  %s (%d rows, %d columns)\n",
				title, table.NumRows(), len(table.Columns))
		}
	}

	toplevel := make([]string, 0, len(parsed.Toplevel))
	for title := range parsed.Toplevel {
		toplevel = append(toplevel, title)
	}
	sort.Strings(toplevel)
	for _, title := range toplevel {
		fmt.Fprintf(c.App.Writer, "%s (%d tables)\n", title, len(parsed.Toplevel[title]))
	}

	return nil
}

// handleSeries prints a summary of the CSV time series in a run
// directory.
func handleSeries(c *cli.Context) error {
	_, log, err := setup(c)
	if err != nil {
		return err
	}

	series, err := report.ParseTimeSeries(c.String("dir"), log)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := series[name]
		if s.IsRaw() {
			fmt.Fprintf(c.App.Writer, "%s: unparsed, %d bytes of raw text\n", name, len(s.Raw))
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %d rows, %d columns\n",
			name, s.Table.NumRows(), len(s.Table.Columns))
	}

	return nil
}

// handleVersions lists engine versions with published installers.
func handleVersions(c *cli.Context) error {
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	client, err := releases.NewClient(c.String("token"), cfg.Releases.Repository)
	if err != nil {
		return err
	}
	versions, err := client.Versions(c.Context)
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Fprintln(c.App.Writer, v)
	}
	return nil
}

// handleInstalled lists distributions recorded in the install registry.
func handleInstalled(c *cli.Context) error {
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}

	target := c.String("target")
	if target == "" {
		target = cfg.TargetFolder
	}
	if target == "" {
		target = installer.DefaultTargetDir()
	}

	db, err := registry.Open(cfg.RegistryPath(target))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	installs, err := db.ListInstalls()
	if err != nil {
		return err
	}
	for _, in := range installs {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", in.Version, in.InstalledAt.Format("2006-01-02"), in.RootPath)
	}
	return nil
}
