// Package pipeline runs the coin counting stages over a decoded photo.
//
// The photo must show a matte, dark reference marker of known diameter on a
// gray background, next to the coins. The stages are:
//
//  1. SegmentReferenceMarker: binarize the marker band and normalize
//  2. LabelRegions: grow regions over the marker grid; region 1 is the marker
//  3. MeasureReferenceMarker: pixel diameter of the marker, then the
//     millimeters-per-pixel scaling factor
//  4. SegmentCoins: binarize the inverted coin band, drop marker pixels and
//     normalize
//  5. LabelRegions: grow regions over the coin grid
//  6. ClassifyCoins: convert to HSB and match every region to a coin
//
// Every stage allocates its own output except normalization, which works in
// place on the grid the previous stage handed over. Run executes all stages
// synchronously; its context is only consulted between stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/coin-tools-mcp/internal/calibration"
	"github.com/ironsheep/coin-tools-mcp/internal/coins"
	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
	"github.com/ironsheep/coin-tools-mcp/internal/segment"
)

// ErrNoMarker is returned by Run when the marker pass retains no region.
var ErrNoMarker = errors.New("no reference marker found")

// Pipeline holds a validated Config and the logger for the run report.
type Pipeline struct {
	cfg        Config
	logger     *log.Logger
	classifier coins.Classifier
}

// New validates cfg and returns a Pipeline. A nil logger uses log.Default().
func New(cfg Config, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		classifier: coins.Classifier{GoldHueCutoff: cfg.GoldHueCutoff},
	}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// MarkerMeasurement describes the calibration taken from the marker.
type MarkerMeasurement struct {
	Pixels        int     `json:"pixels"`
	DiameterPX    float64 `json:"diameter_px"`
	ScalingFactor float64 `json:"scaling_factor"`
}

// RegionRow is one line of the region report.
type RegionRow struct {
	ID         int     `json:"id"`
	Pixels     int     `json:"pixels"`
	DiameterMM float64 `json:"diameter_mm"`
}

// Result carries the final total along with every intermediate a caller
// may want to display.
type Result struct {
	MarkerGrid *imaging.BinaryGrid `json:"-"`
	CoinGrid   *imaging.BinaryGrid `json:"-"`
	Coins      *segment.Labeling   `json:"-"`

	Marker  MarkerMeasurement `json:"marker"`
	Regions []RegionRow       `json:"regions"`
	Matches []coins.Match     `json:"matches"`
	Total   float64           `json:"total"`
}

// SegmentReferenceMarker binarizes the marker band of rgb and normalizes it.
func (p *Pipeline) SegmentReferenceMarker(rgb *imaging.RGBGrid) *imaging.BinaryGrid {
	bin := segment.Binarize(rgb, p.cfg.Marker)
	return segment.NormalizeMarker(bin, p.cfg.NormalizeCount)
}

// SegmentCoins binarizes the coin band of rgb, removes the marker points and
// normalizes the result.
func (p *Pipeline) SegmentCoins(rgb *imaging.RGBGrid, markerPoints []imaging.Point) *imaging.BinaryGrid {
	bin := segment.Binarize(rgb, p.cfg.Coins)
	segment.Exclude(bin, markerPoints)
	return segment.NormalizeCoins(bin, p.cfg.NormalizeCount)
}

// LabelRegions grows regions over a normalized binary grid.
func (p *Pipeline) LabelRegions(bin *imaging.BinaryGrid) *segment.Labeling {
	return segment.GrowRegions(bin, segment.GrowOptions{
		MinArea: p.cfg.MinArea,
		Seed:    p.cfg.Seed,
	})
}

// LocateMarker segments and labels the marker pass. It returns the
// normalized marker grid and the points of region 1, or ErrNoMarker.
func (p *Pipeline) LocateMarker(rgb *imaging.RGBGrid) (*imaging.BinaryGrid, []imaging.Point, error) {
	bin := p.SegmentReferenceMarker(rgb)
	points, ok := p.LabelRegions(bin).Regions[1]
	if !ok {
		return bin, nil, ErrNoMarker
	}
	return bin, points, nil
}

// MeasureReferenceMarker returns the pixel diameter of the marker region.
func MeasureReferenceMarker(points []imaging.Point) float64 {
	return calibration.DiameterFromArea(len(points))
}

// Calibrate measures the marker and derives the millimeters-per-pixel
// scaling factor from the configured physical diameter.
func (p *Pipeline) Calibrate(markerPoints []imaging.Point) (MarkerMeasurement, error) {
	d := MeasureReferenceMarker(markerPoints)
	s, err := calibration.ScalingFactor(p.cfg.ReferenceDiameterMM, d)
	if err != nil {
		return MarkerMeasurement{}, fmt.Errorf("calibrating against reference marker: %w", err)
	}
	return MarkerMeasurement{Pixels: len(markerPoints), DiameterPX: d, ScalingFactor: s}, nil
}

// ClassifyCoins converts rgb to HSB and matches every region to a coin.
func (p *Pipeline) ClassifyCoins(regions segment.RegionMap, rgb *imaging.RGBGrid, factor float64) []coins.Match {
	hsb := imaging.ConvertToHSB(rgb)
	return p.classifier.Match(regions, hsb, factor)
}

// Report lists every region with its pixel count and scaled diameter.
func Report(regions segment.RegionMap, factor float64) []RegionRow {
	rows := make([]RegionRow, 0, len(regions))
	for _, id := range regions.IDs() {
		n := len(regions[id])
		rows = append(rows, RegionRow{
			ID:         id,
			Pixels:     n,
			DiameterMM: calibration.Scale(calibration.DiameterFromArea(n), factor),
		})
	}
	return rows
}

// Run executes every stage over rgb and logs the report.
//
// It returns ErrNoMarker when no marker is found, and a wrapped
// calibration.ErrDegenerateMarker when the marker has no extent. The input
// grid is never modified.
func (p *Pipeline) Run(ctx context.Context, rgb *imaging.RGBGrid) (*Result, error) {
	res := &Result{}

	markerGrid, markerPoints, err := p.LocateMarker(rgb)
	if err != nil {
		return nil, err
	}
	res.MarkerGrid = markerGrid
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	marker, err := p.Calibrate(markerPoints)
	if err != nil {
		return nil, err
	}
	res.Marker = marker
	p.logger.Printf("reference marker: %d pixels, diameter %.2f px, scaling factor %.4f mm/px",
		marker.Pixels, marker.DiameterPX, marker.ScalingFactor)

	res.CoinGrid = p.SegmentCoins(rgb, markerPoints)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Coins = p.LabelRegions(res.CoinGrid)
	res.Regions = Report(res.Coins.Regions, marker.ScalingFactor)
	for _, row := range res.Regions {
		p.logger.Printf("region %d: coin with %d pixels, diameter %.2f mm", row.ID, row.Pixels, row.DiameterMM)
	}
	p.logger.Printf("total coins in image: %d", len(res.Regions))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Matches = p.ClassifyCoins(res.Coins.Regions, rgb, marker.ScalingFactor)
	res.Total = coins.Total(res.Matches)
	p.logger.Printf("coin value: %.2f €", res.Total)

	return res, nil
}
