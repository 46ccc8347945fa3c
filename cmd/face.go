package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// attendanceOptions translates the face configuration into session options.
func attendanceOptions(cfg *config.Config) (attendance.Options, error) {
	metric, err := facematch.ParseMetric(cfg.Face.Metric)
	if err != nil {
		return attendance.Options{}, err
	}
	return attendance.Options{
		Match: facematch.Options{
			Threshold:    cfg.Face.Threshold,
			Metric:       metric,
			IndexMinSize: cfg.Face.IndexMinSize,
			CandidateK:   cfg.Face.CandidateK,
		},
		MaxWidth: cfg.Face.MaxWidth,
	}, nil
}

// waitForFaceService blocks until the face service has loaded its models or timeout passes.
func waitForFaceService(ctx context.Context, client *facedetect.Client, timeout time.Duration, quiet bool) error {
	if !quiet {
		fmt.Printf("Waiting for face service at %s...\n", client.BaseURL())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := client.WaitReady(ctx, constants.ReadyPollInterval); err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Face service ready after %s\n", time.Since(start).Round(time.Second))
	}
	return nil
}
