package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/pkg/errors"
)

// logLossEpsilon はlog(0)を避けるためのクリッピング値
const logLossEpsilon = 1e-15

// AUC はROC曲線下面積（Area Under the Curve）をランク法で計算する。
// 同順位には平均ランクを割り当てる。単一クラスの場合は未定義のため0.5を返す。
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUC", "empty vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yPred.Len(), 0)
	}

	nPos := 0
	for i := 0; i < n; i++ {
		v := yTrue.AtVec(i)
		if v != 0 && v != 1 {
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
		if v == 1 {
			nPos++
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		// 片方のクラスしか存在しない場合はROCが定義できない
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present", 0.5))
		return 0.5, nil
	}

	// スコア昇順にソートし、同順位グループごとに平均ランクを与える
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) < yPred.AtVec(idx[b])
	})

	var sumPosRank float64
	for i := 0; i < n; {
		j := i
		for j < n && yPred.AtVec(idx[j]) == yPred.AtVec(idx[i]) {
			j++
		}
		// ランクは1始まり、グループ[i, j)の平均ランク
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if yTrue.AtVec(idx[k]) == 1 {
				sumPosRank += avgRank
			}
		}
		i = j
	}

	// Mann-Whitney U統計量から算出
	u := sumPosRank - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する。
// 複数列の場合は先頭列を使用する。
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUCMatrix", "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 || rPred == 0 || cPred == 0 {
		return 0, errors.NewValueError("AUCMatrix", "empty matrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("AUCMatrix", rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return AUC(yTrueVec, yPredVec)
}

// BinaryLogLoss は二値分類の対数損失を計算する。
// 予測確率は[ε, 1-ε]にクリップしてlog(0)を避ける。
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}
		p := errors.ClipValue(yPred.AtVec(i), logLossEpsilon, 1-logLossEpsilon)
		sum += y*math.Log(p) + (1-y)*math.Log(1-p)
	}

	return -sum / float64(n), nil
}

// ClassificationError は誤分類率を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("ClassificationError", "empty vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("ClassificationError", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("ClassificationError", n, yPred.Len(), 0)
	}

	wrong := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}

	return float64(wrong) / float64(n), nil
}

// Accuracy は正解率（1 - 誤分類率）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errRate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - errRate, nil
}

// BrierScore は予測確率と実測値の平均二乗差を計算する
func BrierScore(yTrue, yProb *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yProb == nil {
		return 0, errors.NewValueError("BrierScore", "empty vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BrierScore", "empty vector")
	}
	if yProb.Len() != n {
		return 0, errors.NewDimensionError("BrierScore", n, yProb.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BrierScore", "labels must be binary (0 or 1)")
		}
		diff := y - yProb.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// ConfusionMatrix は閾値で確率を判別した2x2分類表
type ConfusionMatrix struct {
	TP, FP, TN, FN int
	Threshold      float64
}

// NewConfusionMatrix は予測確率を閾値で0/1に判別し、実測値と突き合わせた
// 分類表を作成する。周辺度数が0の場合は警告を発し、該当する指標は0になる。
func NewConfusionMatrix(yTrue, yProb *mat.VecDense, threshold float64) (*ConfusionMatrix, error) {
	// 入力検証
	if yTrue == nil || yProb == nil {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yProb.Len() != n {
		return nil, errors.NewDimensionError("NewConfusionMatrix", n, yProb.Len(), 0)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, errors.NewValueError("NewConfusionMatrix", "threshold must lie in [0, 1]")
	}

	cm := &ConfusionMatrix{Threshold: threshold}
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return nil, errors.NewValueError("NewConfusionMatrix", "labels must be binary (0 or 1)")
		}
		predicted := yProb.AtVec(i) >= threshold
		switch {
		case predicted && y == 1:
			cm.TP++
		case predicted && y == 0:
			cm.FP++
		case !predicted && y == 1:
			cm.FN++
		default:
			cm.TN++
		}
	}

	if cm.TP+cm.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Sensitivity", "no positive observations", 0))
	}
	if cm.TN+cm.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("Specificity", "no negative observations", 0))
	}

	return cm, nil
}

// Total は観測数を返す
func (cm *ConfusionMatrix) Total() int {
	return cm.TP + cm.FP + cm.TN + cm.FN
}

// Accuracy は正しく分類された割合を返す
func (cm *ConfusionMatrix) Accuracy() float64 {
	return errors.SafeDivide(float64(cm.TP+cm.TN), float64(cm.Total()))
}

// Sensitivity は実測陽性のうち正しく陽性と判別された割合（再現率）を返す
func (cm *ConfusionMatrix) Sensitivity() float64 {
	return errors.SafeDivide(float64(cm.TP), float64(cm.TP+cm.FN))
}

// Specificity は実測陰性のうち正しく陰性と判別された割合を返す
func (cm *ConfusionMatrix) Specificity() float64 {
	return errors.SafeDivide(float64(cm.TN), float64(cm.TN+cm.FP))
}

// Precision は陽性判別のうち実測も陽性だった割合を返す
func (cm *ConfusionMatrix) Precision() float64 {
	return errors.SafeDivide(float64(cm.TP), float64(cm.TP+cm.FP))
}

// NPV は陰性判別のうち実測も陰性だった割合を返す
func (cm *ConfusionMatrix) NPV() float64 {
	return errors.SafeDivide(float64(cm.TN), float64(cm.TN+cm.FN))
}

// F1 は適合率と再現率の調和平均を返す
func (cm *ConfusionMatrix) F1() float64 {
	p, r := cm.Precision(), cm.Sensitivity()
	return errors.SafeDivide(2*p*r, p+r)
}

// String は分類表を固定幅テキストで描画する
func (cm *ConfusionMatrix) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Classified at Pr(y=1) >= %g\n", cm.Threshold)
	fmt.Fprintf(&b, "%-12s %8s %8s %8s\n", "", "y=1", "y=0", "Total")
	fmt.Fprintf(&b, "%-12s %8d %8d %8d\n", "pred=1", cm.TP, cm.FP, cm.TP+cm.FP)
	fmt.Fprintf(&b, "%-12s %8d %8d %8d\n", "pred=0", cm.FN, cm.TN, cm.FN+cm.TN)
	fmt.Fprintf(&b, "%-12s %8d %8d %8d\n\n", "Total", cm.TP+cm.FN, cm.FP+cm.TN, cm.Total())

	fmt.Fprintf(&b, "Accuracy:    %6.2f%%\n", 100*cm.Accuracy())
	fmt.Fprintf(&b, "Sensitivity: %6.2f%%\n", 100*cm.Sensitivity())
	fmt.Fprintf(&b, "Specificity: %6.2f%%\n", 100*cm.Specificity())
	fmt.Fprintf(&b, "Precision:   %6.2f%%\n", 100*cm.Precision())
	fmt.Fprintf(&b, "NPV:         %6.2f%%\n", 100*cm.NPV())
	fmt.Fprintf(&b, "F1:          %6.4f\n", cm.F1())

	return b.String()
}
