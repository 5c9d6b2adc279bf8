package model

import (
	"encoding/json"
	"fmt"
)

// ModelWeights はモデルの学習済みパラメータを表す構造体（シリアライゼーション用）
// 推論だけでなく区間推定も再現できるよう、標準誤差と係数の共分散行列も保持する
type ModelWeights struct {
	// ModelType はモデルの種類（Logit等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// StdErrors はWald標準誤差（切片を推定した場合は先頭に置く、オプション）
	StdErrors []float64 `json:"std_errors,omitempty"`

	// Covariance は係数の共分散行列（行優先の正方行列、切片を推定した場合は先頭）
	// 予測確率の信頼区間の計算に必要
	Covariance [][]float64 `json:"covariance,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}

	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}

	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return fmt.Errorf("unfitted model should not have coefficients")
	}

	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return fmt.Errorf("fitted model must have coefficients")
	}

	// 切片を推定したモデルでは係数数+1、切片なしでは係数数に一致する
	k := len(mw.Coefficients)
	if n := len(mw.StdErrors); n > 0 && n != k && n != k+1 {
		return fmt.Errorf("std_errors length must be len(coefficients) or len(coefficients)+1, got %d", n)
	}

	if n := len(mw.Covariance); n > 0 {
		if n != k && n != k+1 {
			return fmt.Errorf("covariance must have len(coefficients) or len(coefficients)+1 rows, got %d", n)
		}
		for i, row := range mw.Covariance {
			if len(row) != n {
				return fmt.Errorf("covariance row %d has %d entries, want %d", i, len(row), n)
			}
		}
		if len(mw.StdErrors) > 0 && len(mw.StdErrors) != n {
			return fmt.Errorf("std_errors length %d does not match covariance dimension %d", len(mw.StdErrors), n)
		}
	}

	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		IsFitted:        mw.IsFitted,
		Coefficients:    make([]float64, len(mw.Coefficients)),
		Features:        make([]string, len(mw.Features)),
		StdErrors:       make([]float64, len(mw.StdErrors)),
		Hyperparameters: make(map[string]interface{}),
		Metadata:        make(map[string]interface{}),
	}

	copy(clone.Coefficients, mw.Coefficients)
	copy(clone.Features, mw.Features)
	copy(clone.StdErrors, mw.StdErrors)

	if len(mw.Covariance) > 0 {
		clone.Covariance = make([][]float64, len(mw.Covariance))
		for i, row := range mw.Covariance {
			clone.Covariance[i] = make([]float64, len(row))
			copy(clone.Covariance[i], row)
		}
	}

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
