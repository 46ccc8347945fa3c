package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take <class-photo>...",
	Short: "Take attendance for class photos offline",
	Long: `Register every portrait in a directory and take attendance for one or more class photos.

Each portrait must show exactly one face. The student name is the file name
without extension, with underscores replaced by spaces (Jane_Doe.jpg -> "Jane Doe").

Examples:
  face-attendance take --students ./portraits class.jpg
  face-attendance take --students ./portraits --threshold 0.5 monday.jpg tuesday.jpg
  face-attendance take --students ./portraits class.jpg --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTake,
}

func init() {
	rootCmd.AddCommand(takeCmd)

	takeCmd.Flags().String("students", "", "Directory with one portrait per student (required)")
	takeCmd.Flags().Float64("threshold", 0, "Maximum match distance (overrides FACE_MATCH_THRESHOLD)")
	takeCmd.Flags().Bool("json", false, "Output as JSON")
	_ = takeCmd.MarkFlagRequired("students")
}

// portraitExtensions lists the file types accepted as portraits.
var portraitExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true, ".gif": true,
}

// portrait is a student photo found in the students directory.
type portrait struct {
	Name string
	Path string
}

// findPortraits lists the portraits in dir in file name order.
func findPortraits(dir string) ([]portrait, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading students directory: %w", err)
	}

	var portraits []portrait
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !portraitExtensions[strings.ToLower(ext)] {
			continue
		}
		name := strings.ReplaceAll(strings.TrimSuffix(e.Name(), ext), "_", " ")
		portraits = append(portraits, portrait{Name: name, Path: filepath.Join(dir, e.Name())})
	}
	return portraits, nil
}

// registrationFailure records a portrait that could not be registered.
type registrationFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// registerPortraits registers every portrait, continuing past failures.
func registerPortraits(ctx context.Context, session *attendance.Session, portraits []portrait, quiet bool) []registrationFailure {
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(portraits),
			progressbar.OptionSetDescription("Registering students"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("portraits"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	var failures []registrationFailure
	for _, p := range portraits {
		err := registerPortrait(ctx, session, p)
		if err != nil {
			failures = append(failures, registrationFailure{Name: p.Name, Error: err.Error()})
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Println()
	}
	return failures
}

func registerPortrait(ctx context.Context, session *attendance.Session, p portrait) error {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.Path, err)
	}
	_, err = session.Register(ctx, p.Name, data)
	return err
}

// photoAttendance is the JSON output for one class photo.
type photoAttendance struct {
	Photo  string                 `json:"photo"`
	Result *attendance.Attendance `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// takeOutput is the JSON output of the take command.
type takeOutput struct {
	Students []string              `json:"students"`
	Failures []registrationFailure `json:"registration_failures,omitempty"`
	Photos   []photoAttendance     `json:"photos"`
}

func runTake(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	if cmd.Flags().Changed("threshold") {
		cfg.Face.Threshold = mustGetFloat64(cmd, "threshold")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	opts, err := attendanceOptions(cfg)
	if err != nil {
		return err
	}

	portraits, err := findPortraits(mustGetString(cmd, "students"))
	if err != nil {
		return err
	}
	if len(portraits) == 0 {
		return errors.New("no portraits found in students directory")
	}

	faceClient := facedetect.NewClient(cfg.Face.ServiceURL, cfg.Face.MinDetScore)
	if err := waitForFaceService(ctx, faceClient, cfg.Face.ReadyTimeout, jsonOutput); err != nil {
		return err
	}

	session := attendance.NewSession("cli", faceClient, opts)
	defer session.Close()

	failures := registerPortraits(ctx, session, portraits, jsonOutput)
	if !jsonOutput {
		printRegistrationSummary(session.Students(), failures)
	}

	out := takeOutput{
		Students: session.Students(),
		Failures: failures,
	}
	for _, path := range args {
		result := photoAttendance{Photo: path}
		a, err := takePhotoAttendance(ctx, session, path)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Result = a
		}
		out.Photos = append(out.Photos, result)

		if !jsonOutput {
			printPhotoAttendance(result)
		}
	}

	if jsonOutput {
		return outputJSON(out)
	}
	return nil
}

func takePhotoAttendance(ctx context.Context, session *attendance.Session, path string) (*attendance.Attendance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return session.TakeAttendance(ctx, data)
}

func printRegistrationSummary(students []string, failures []registrationFailure) {
	fmt.Printf("Registered %d students\n", len(students))
	for _, f := range failures {
		fmt.Printf("  Warning: %s not registered: %s\n", f.Name, f.Error)
	}
	fmt.Println()
}

// printPhotoAttendance prints the human-readable attendance table of one photo.
func printPhotoAttendance(p photoAttendance) {
	fmt.Printf("== %s ==\n", p.Photo)
	if p.Error != "" {
		fmt.Printf("Error: %s\n\n", p.Error)
		return
	}
	a := p.Result

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tSTATUS")
	fmt.Fprintln(w, "-------\t------")
	for _, name := range a.Present {
		fmt.Fprintf(w, "%s\tpresent\n", name)
	}
	for _, name := range a.Absent {
		fmt.Fprintf(w, "%s\tabsent\n", name)
	}
	w.Flush()

	fmt.Printf("\nFaces:\n")
	for i, f := range a.Faces {
		fmt.Printf("  #%d at (%.0f, %.0f): %s\n", i+1, f.Box.X, f.Box.Y, f.Result)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Present:  %d\n", len(a.Present))
	fmt.Printf("  Absent:   %d\n", len(a.Absent))
	fmt.Printf("  Unknown:  %d\n\n", a.Unknown)
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
