package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var (
	histogramFilters filterFlags
	histogramOutput  string
	histogramNoOpen  bool
)

var histogramCmd = &cobra.Command{
	Use:     "histogram <file>",
	Aliases: []string{"hist"},
	Short:   "Chart the colour histogram of an image (alias: hist)",
	Long: `Render the red, green, blue and luma histograms of an image as an
interactive HTML chart and open it in the browser.

Filter flags are applied before measuring, so the chart shows what an
export with the same flags would contain.

Examples:
  px histogram photo.jpg
  px histogram photo.jpg --contrast 140 --no-open -o hist.html`,
	Args: cobra.ExactArgs(1),
	RunE: runHistogram,
}

func init() {
	addFilterFlags(histogramCmd, &histogramFilters)
	histogramCmd.Flags().StringVarP(&histogramOutput, "output", "o", "", "Write the chart to this file (default: workspace cache)")
	histogramCmd.Flags().BoolVar(&histogramNoOpen, "no-open", false, "Do not open the chart")
}

func runHistogram(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	path := args[0]
	if !domain.IsAcceptedImage(path) {
		return fmt.Errorf("%s is not an image", path)
	}

	params := histogramFilters.params()
	resp, err := histogramService.Execute(ctx, services.HistogramRequest{
		File:   domain.NewUploadFile(path),
		Params: params,
	})
	if err != nil {
		return err
	}

	outPath := histogramOutput
	if outPath == "" {
		base := strings.TrimSuffix(resp.Name, filepath.Ext(resp.Name))
		outPath = appWorkspace.GetCachePath("histogram-" + base + ".html")
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := histogramChart(resp, params).Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Println(ui.RenderKeyValue("Image", fmt.Sprintf("%s (%d×%d)", resp.Name, resp.Width, resp.Height)))
	fmt.Println(ui.RenderKeyValue("Filters", params.FilterString()))
	fmt.Println(ui.RenderKeyValue("Mean luma", strconv.FormatFloat(meanBucket(resp.Luma), 'f', 1, 64)))
	fmt.Println(ui.FormatSuccess("Chart written to " + shortenHome(outPath)))

	if histogramNoOpen {
		return nil
	}
	return OpenFile(outPath, "")
}

// histogramChart builds a four-series line chart over the 256 buckets
func histogramChart(resp *services.HistogramResponse, params domain.FilterParams) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "px histogram - " + resp.Name,
			Width:     "1100px",
			Height:    "560px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    resp.Name,
			Subtitle: params.FilterString(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pixels"}),
	)

	xs := make([]string, 256)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}

	line.SetXAxis(xs).
		AddSeries("Red", lineData(resp.Red), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#e06c75"})).
		AddSeries("Green", lineData(resp.Green), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#98c379"})).
		AddSeries("Blue", lineData(resp.Blue), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#61afef"})).
		AddSeries("Luma", lineData(resp.Luma), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#abb2bf"})).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(false),
		}))

	return line
}

func lineData(buckets [256]int) []opts.LineData {
	items := make([]opts.LineData, len(buckets))
	for i, n := range buckets {
		items[i] = opts.LineData{Value: n}
	}
	return items
}

// meanBucket returns the count-weighted mean bucket index
func meanBucket(buckets [256]int) float64 {
	var total, sum int
	for i, n := range buckets {
		total += n
		sum += i * n
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}
