// Package metrics は分類結果の評価指標を提供します。
package metrics

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は混同行列を計算する。
// 行が正解ラベル、列が予測ラベルで、順序は返されるラベル列に従う。
// labels が nil の場合は yTrue と yPred に現れる全てのラベルを昇順で使う。
func ConfusionMatrix(yTrue, yPred *mat.VecDense, labels []int) (*mat.Dense, []int, error) {
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}
	if labels == nil {
		seen := make(map[int]bool)
		for i := 0; i < n; i++ {
			for _, v := range []float64{yTrue.AtVec(i), yPred.AtVec(i)} {
				if !seen[int(v)] {
					seen[int(v)] = true
					labels = append(labels, int(v))
				}
			}
		}
		slices.Sort(labels)
	}
	pos := make(map[int]int, len(labels))
	for k, l := range labels {
		pos[l] = k
	}
	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		t, okT := pos[int(yTrue.AtVec(i))]
		p, okP := pos[int(yPred.AtVec(i))]
		if !okT || !okP {
			continue
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, slices.Clone(labels), nil
}

// ClassScore は1クラス分の適合率・再現率・F1とサポート数
type ClassScore struct {
	Label     int     `yaml:"label"`
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1"`
	Support   int     `yaml:"support"`
}

// PrecisionRecallF1 はクラスごとの適合率・再現率・F1を計算する。
// 分母が0になる指標は0とし、UndefinedMetricWarning を発行する。
func PrecisionRecallF1(yTrue, yPred *mat.VecDense, labels []int) ([]ClassScore, error) {
	cm, labels, err := ConfusionMatrix(yTrue, yPred, labels)
	if err != nil {
		return nil, err
	}
	k := len(labels)
	scores := make([]ClassScore, k)
	for c := 0; c < k; c++ {
		tp := cm.At(c, c)
		predicted := mat.Sum(cm.ColView(c))
		actual := mat.Sum(cm.RowView(c))
		s := ClassScore{Label: labels[c], Support: int(actual)}
		if predicted > 0 {
			s.Precision = tp / predicted
		} else {
			errors.Warn(errors.NewUndefinedMetricWarning("precision",
				fmt.Sprintf("no predicted samples for label %d", labels[c]), 0))
		}
		if actual > 0 {
			s.Recall = tp / actual
		} else {
			errors.Warn(errors.NewUndefinedMetricWarning("recall",
				fmt.Sprintf("no true samples for label %d", labels[c]), 0))
		}
		s.F1 = errors.SafeDivide(2*s.Precision*s.Recall, s.Precision+s.Recall)
		scores[c] = s
	}
	return scores, nil
}

// MacroF1 はクラスごとのF1の単純平均を計算する
func MacroF1(scores []ClassScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.F1
	}
	return sum / float64(len(scores))
}
