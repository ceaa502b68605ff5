package trainer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mikey/fakenews-detector/internal/core"
)

// ConfusionMatrix counts predictions by [actual][predicted] label
type ConfusionMatrix [2][2]int

// ClassMetrics is the per-class precision/recall report row
type ClassMetrics struct {
	Label     core.Label
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation summarizes classifier quality on the held-out split.
// Precision, Recall and F1 are for the Real class.
type Evaluation struct {
	Samples   int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Confusion ConfusionMatrix
	Classes   [2]ClassMetrics
}

// Evaluate compares predicted labels against the truth
func Evaluate(actual, predicted []core.Label) Evaluation {
	var cm ConfusionMatrix
	for i := range actual {
		cm[actual[i]][predicted[i]]++
	}

	eval := Evaluation{Samples: len(actual), Confusion: cm}
	if len(actual) > 0 {
		eval.Accuracy = float64(cm[0][0]+cm[1][1]) / float64(len(actual))
	}
	for _, label := range []core.Label{core.LabelFake, core.LabelReal} {
		eval.Classes[label] = classMetrics(cm, label)
	}
	realClass := eval.Classes[core.LabelReal]
	eval.Precision, eval.Recall, eval.F1 = realClass.Precision, realClass.Recall, realClass.F1
	return eval
}

func classMetrics(cm ConfusionMatrix, label core.Label) ClassMetrics {
	other := 1 - label
	tp := cm[label][label]
	fp := cm[other][label]
	fn := cm[label][other]

	m := ClassMetrics{Label: label, Support: tp + fn}
	m.Precision = ratio(tp, tp+fp)
	m.Recall = ratio(tp, tp+fn)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// ratio returns 0 when the denominator is empty
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// WeightedTerm is a vocabulary entry with its learned weight
type WeightedTerm struct {
	Term   string
	Weight float64
}

// Report is everything a training run produced
type Report struct {
	PairID       string
	ReleasePath  string
	Loaded       int
	Dropped      int
	TrainSize    int
	TestSize     int
	Dimension    int
	Iterations   int
	Evaluation   Evaluation
	TopRealTerms []WeightedTerm
	TopFakeTerms []WeightedTerm
}

// Write prints the report as human readable diagnostics
func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Samples loaded:\t%d\n", r.Loaded)
	fmt.Fprintf(tw, "Dropped (too short):\t%d\n", r.Dropped)
	fmt.Fprintf(tw, "Train / test:\t%d / %d\n", r.TrainSize, r.TestSize)
	fmt.Fprintf(tw, "Vocabulary size:\t%d\n", r.Dimension)
	fmt.Fprintf(tw, "Gradient steps:\t%d\n", r.Iterations)
	fmt.Fprintln(tw)

	e := r.Evaluation
	if e.Samples == 0 {
		fmt.Fprintln(tw, "No held-out samples, evaluation skipped")
	} else {
		fmt.Fprintf(tw, "Accuracy:\t%.4f\n", e.Accuracy)
		fmt.Fprintf(tw, "Precision:\t%.4f\n", e.Precision)
		fmt.Fprintf(tw, "Recall:\t%.4f\n", e.Recall)
		fmt.Fprintf(tw, "F1:\t%.4f\n", e.F1)
		fmt.Fprintln(tw)

		fmt.Fprintln(tw, "Confusion matrix\tpred Fake\tpred Real")
		fmt.Fprintf(tw, "actual Fake\t%d\t%d\n", e.Confusion[0][0], e.Confusion[0][1])
		fmt.Fprintf(tw, "actual Real\t%d\t%d\n", e.Confusion[1][0], e.Confusion[1][1])
		fmt.Fprintln(tw)

		fmt.Fprintln(tw, "Class\tprecision\trecall\tf1\tsupport")
		for _, c := range e.Classes {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
		}
	}
	fmt.Fprintln(tw)

	writeTerms(tw, "Top Real terms", r.TopRealTerms)
	writeTerms(tw, "Top Fake terms", r.TopFakeTerms)

	if r.ReleasePath != "" {
		fmt.Fprintf(tw, "Saved pair %s to %s\n", r.PairID, r.ReleasePath)
	}
	return tw.Flush()
}

func writeTerms(w io.Writer, title string, terms []WeightedTerm) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, t := range terms {
		fmt.Fprintf(w, "  %s\t%+.4f\n", t.Term, t.Weight)
	}
	fmt.Fprintln(w)
}
