package reporter

import (
	"fmt"

	"github.com/aarsakian/ImageSanitizer/interval"
	"github.com/aarsakian/ImageSanitizer/sanitizer"
)

type Reporter struct {
	ShowRegions bool
	ShowTables  bool
	ShowPlan    bool
}

func (rp Reporter) Show(plan sanitizer.Plan) {
	if rp.ShowRegions {
		fmt.Printf("protected regions from metadata report\n")
		for _, region := range plan.Regions {
			fmt.Printf("  %-22s %12d - %12d (%d bytes)\n",
				region.Kind, region.Interval.Start, region.Interval.End, region.Interval.Length())
		}
	}

	if rp.ShowTables {
		if len(plan.FileTables) == 0 {
			fmt.Printf("no file table windows, volume is not NTFS\n")
		} else {
			fmt.Printf("file table windows\n")
			for _, window := range plan.FileTables {
				fmt.Printf("  %12d - %12d (%d bytes)\n", window.Start, window.End, window.Length())
			}
		}
	}

	if rp.ShowPlan {
		fmt.Printf("zero plan for image of %d bytes\n", plan.ImageSize)
		for _, gap := range plan.Zero {
			fmt.Printf("  zero %12d - %12d (%d bytes)\n", gap.Start, gap.End, gap.Length())
		}
		fmt.Printf("%d bytes to zero, %d bytes preserved\n",
			totalLength(plan.Zero), plan.ImageSize-totalLength(plan.Zero))
	}
}

func totalLength(intervals []interval.Interval) uint64 {
	var total uint64
	for _, iv := range intervals {
		total += iv.Length()
	}
	return total
}
