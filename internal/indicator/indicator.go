package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
)

// Params holds the window lengths for every indicator the strategies read.
type Params struct {
	FastWindow int
	SlowWindow int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	ROCPeriod  int
}

// DefaultParams returns the classic 50/200 crossover setup with 12/26/9 MACD.
func DefaultParams() Params {
	return Params{
		FastWindow: 50,
		SlowWindow: 200,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		ROCPeriod:  10,
	}
}

func (p Params) Validate() error {
	if p.FastWindow <= 1 {
		return fmt.Errorf("fast window must be > 1")
	}
	if p.SlowWindow <= p.FastWindow {
		return fmt.Errorf("slow window must be > fast window")
	}
	if p.MACDFast <= 0 || p.MACDSlow <= p.MACDFast || p.MACDSignal <= 0 {
		return fmt.Errorf("invalid macd windows %d/%d/%d", p.MACDFast, p.MACDSlow, p.MACDSignal)
	}
	if p.ROCPeriod <= 0 {
		return fmt.Errorf("roc period must be > 0")
	}
	return nil
}

// MinBars is the number of closes needed before a snapshot is defined.
func (p Params) MinBars() int {
	need := p.SlowWindow
	if macd := p.MACDSlow + p.MACDSignal - 1; macd > need {
		need = macd
	}
	if roc := p.ROCPeriod + 1; roc > need {
		need = roc
	}
	return need
}

// Snapshot carries the indicator values for a single bar. A zero-valued
// snapshot with Valid=false means the bar sits inside the warm-up region
// and must not be traded on.
type Snapshot struct {
	SMAFast    float64
	SMASlow    float64
	MACDLine   float64
	MACDSignal float64
	MACDHist   float64
	ROC        float64
	Valid      bool
}

// Compute derives the snapshots for the two most recent closes. Insufficient
// history is not an error: the affected snapshots come back with Valid=false.
func Compute(closes []float64, p Params) (prev, curr Snapshot, err error) {
	if err := p.Validate(); err != nil {
		return Snapshot{}, Snapshot{}, err
	}
	if len(closes) == 0 {
		return Snapshot{}, Snapshot{}, fmt.Errorf("no closes")
	}

	n := len(closes)
	need := p.MinBars()
	if n < need {
		return Snapshot{}, Snapshot{}, nil
	}

	// TALib seeds the warm-up region of every series with zeros; indexes
	// >= need-1 are past the longest warm-up for this parameter set.
	smaFast := talib.Sma(closes, p.FastWindow)
	smaSlow := talib.Sma(closes, p.SlowWindow)
	macd, macdSignal, macdHist := talib.Macd(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	roc := talib.Roc(closes, p.ROCPeriod)

	at := func(i int) Snapshot {
		return Snapshot{
			SMAFast:    smaFast[i],
			SMASlow:    smaSlow[i],
			MACDLine:   macd[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			ROC:        roc[i],
			Valid:      true,
		}
	}

	curr = at(n - 1)
	if n > need {
		prev = at(n - 2)
	}
	return prev, curr, nil
}
