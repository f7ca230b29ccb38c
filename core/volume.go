package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
)

// SliderOffset maps a volume percentage onto a vertical pixel offset from the center
// of a slider of the given height: 100 is the top edge, 0 the bottom edge and 50 the
// center. Screen y grows downwards.
func SliderOffset(height float64, percent int) float64 {
	return height * (0.5 - float64(percent)/100)
}

// GetVolume reveals the volume flyout and reads the current volume as 0..100.
func (c *Controller) GetVolume(ctx context.Context) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	var volume int
	err := c.withVolumeSlider(ctx, func(_ Node, slider Node) error {
		input, err := c.waitElement(ctx, slider, c.sel.VolumeInput, "volume input")
		if err != nil {
			return err
		}
		raw, err := c.driver.Value(ctx, input)
		if err != nil {
			return fmt.Errorf("read volume: %w", err)
		}
		fraction, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("parse volume %q: %w", raw, err)
		}
		volume = clampPercent(int(math.Round(fraction * 100)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	logx.WithAction(ctx, "get_volume").Debug("volume read", "volume", volume)
	return volume, nil
}

// SetVolume sets the volume to a percentage in [0, 100]. The slider cannot reach
// zero, so 0 is applied by muting through the trigger after moving to the bottom.
func (c *Controller) SetVolume(ctx context.Context, volume int) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	if volume < 0 || volume > 100 {
		return "", fmt.Errorf("%w: volume must be between 0 and 100, got %d", schema.ErrInvalidArgument, volume)
	}
	err := c.withVolumeSlider(ctx, func(trigger Node, slider Node) error {
		box, err := c.driver.Box(ctx, slider)
		if err != nil {
			return fmt.Errorf("measure volume slider: %w", err)
		}
		x := box.CenterX()
		y := box.CenterY() + SliderOffset(box.Height, volume)
		if err := c.driver.ClickAt(ctx, x, y); err != nil {
			return fmt.Errorf("click volume slider: %w", err)
		}
		if volume == 0 {
			if err := c.driver.Click(ctx, trigger); err != nil {
				return fmt.Errorf("mute: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logx.WithAction(ctx, "set_volume").Debug("volume set", "volume", volume)
	return schema.StatusOK, nil
}

// withVolumeSlider hovers the volume trigger, waits for the slider flyout and runs fn.
// The pointer is always moved back to the origin so the flyout closes.
func (c *Controller) withVolumeSlider(ctx context.Context, fn func(trigger Node, slider Node) error) error {
	trigger, err := c.waitElement(ctx, nil, c.sel.VolumeTrigger, "volume button")
	if err != nil {
		return err
	}
	defer func() {
		if moveErr := c.driver.MoveTo(ctx, 0, 0); moveErr != nil {
			logx.WithAction(ctx, "volume").Warn("restore pointer failed", "err", moveErr)
		}
	}()
	if err := c.driver.Hover(ctx, trigger); err != nil {
		return fmt.Errorf("hover volume button: %w", err)
	}
	slider, err := c.waitElement(ctx, nil, c.sel.VolumeSlider, "volume slider")
	if err != nil {
		return err
	}
	return fn(trigger, slider)
}

func clampPercent(v int) int {
	return max(0, min(100, v))
}
