package scoring

type ColorPair struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

type Bucket string

const (
	BucketRed        Bucket = "red"
	BucketOrange     Bucket = "orange"
	BucketYellow     Bucket = "yellow"
	BucketLightGreen Bucket = "lightGreen"
	BucketDarkGreen  Bucket = "darkGreen"
)

// 下标即水平 0..4
var (
	screenPalette = [MaxLevel + 1]ColorPair{
		{Background: "#dc3545", Foreground: "#ffffff"},
		{Background: "#fd7e14", Foreground: "#ffffff"},
		{Background: "#ffc107", Foreground: "#000000"},
		{Background: "#8bc34a", Foreground: "#000000"},
		{Background: "#1b5e20", Foreground: "#ffffff"},
	}
	// 打印版除两端外都使用浅色底黑字
	printPalette = [MaxLevel + 1]ColorPair{
		{Background: "#dc3545", Foreground: "#ffffff"},
		{Background: "#ffd8a8", Foreground: "#000000"},
		{Background: "#fff3bf", Foreground: "#000000"},
		{Background: "#d3f9d8", Foreground: "#000000"},
		{Background: "#1b5e20", Foreground: "#ffffff"},
	}
	buckets = [MaxLevel + 1]Bucket{BucketRed, BucketOrange, BucketYellow, BucketLightGreen, BucketDarkGreen}
)

func LevelColor(level int) ColorPair {
	return screenPalette[ClampLevel(level)]
}

func PrintLevelColor(level int) ColorPair {
	return printPalette[ClampLevel(level)]
}

// Palette 按是否打印选择配色
func Palette(printFriendly bool) func(int) ColorPair {
	if printFriendly {
		return PrintLevelColor
	}
	return LevelColor
}

type PercentBucket struct {
	ColorPair
	Bucket Bucket `json:"bucket"`
}

// PercentColor 边界：≤25 红，≤50 橙，≤75 黄，≤90 浅绿，其余深绿
func PercentColor(percent float64) PercentBucket {
	p := ClampPercent(percent)
	var idx int
	switch {
	case p <= 25:
		idx = 0
	case p <= 50:
		idx = 1
	case p <= 75:
		idx = 2
	case p <= 90:
		idx = 3
	default:
		idx = 4
	}
	return PercentBucket{ColorPair: screenPalette[idx], Bucket: buckets[idx]}
}

var levelLabels = [MaxLevel + 1]string{"Not Aware", "Beginner", "Basic", "Proficient", "Expert"}

func LevelLabel(level int) string {
	return levelLabels[ClampLevel(level)]
}
