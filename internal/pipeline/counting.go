package pipeline

import (
	"context"
	"image"

	"github.com/blauwers/receiptd/internal/driver"
)

// countingDriver feeds job progress from successful emits while delegating
// every call to the lane's real driver.
type countingDriver struct {
	driver.Driver
	job *Job
}

func (d *countingDriver) TextLine(ctx context.Context, text string) error {
	if err := d.Driver.TextLine(ctx, text); err != nil {
		return err
	}
	d.job.IncrLines()
	return nil
}

func (d *countingDriver) Image(ctx context.Context, img image.Image) error {
	if err := d.Driver.Image(ctx, img); err != nil {
		return err
	}
	d.job.IncrImages()
	return nil
}
