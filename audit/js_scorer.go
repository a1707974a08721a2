package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dop251/goja"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"go.uber.org/zap"
)

// jsScorer evaluates a user supplied javascript expression against each
// event. The script sees the event as `$` and must assign a number to
// `$.score`.
type jsScorer struct {
	mu         sync.Mutex
	expression string
}

var _ Scorer = new(jsScorer)

func NewJsScorer(expression string) *jsScorer {
	return &jsScorer{expression: expression}
}

func NewJsScorerFromFile(fileName string) (*jsScorer, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return NewJsScorer(string(data)), nil
}

func (js *jsScorer) Score(event Event) float64 {
	js.mu.Lock()
	defer js.mu.Unlock()
	data, err := json.Marshal(event)
	if err != nil {
		return 0
	}
	expression := fmt.Sprintf("var $ = %s;\n", data) + js.expression
	vm := goja.New()
	if _, err := vm.RunString(expression); err != nil {
		logger.Error("error evaluating anomaly script", zap.Error(err))
		return 0
	}
	val, err := vm.RunString("$.score")
	if err != nil {
		logger.Error("error reading anomaly score", zap.Error(err))
		return 0
	}
	return val.ToFloat()
}
