package model

import (
	"fmt"
	"io"
	"os"
)

// SaveWeights はModelWeightsをJSONファイルとして保存する
//
// パラメータ:
//   - weights: 保存する学習済みパラメータ
//   - filename: 保存先のファイルパス
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
//
// 使用例:
//
//	weights, _ := model.ExportWeights()
//	err := model.SaveWeights(weights, "logit.json")
func SaveWeights(weights *ModelWeights, filename string) error {
	if err := weights.Validate(); err != nil {
		return fmt.Errorf("invalid model weights: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return SaveWeightsToWriter(weights, file)
}

// LoadWeights はJSONファイルからModelWeightsを読み込む
//
// パラメータ:
//   - filename: 読み込み元のファイルパス
//
// 戻り値:
//   - *ModelWeights: 読み込まれた学習済みパラメータ
//   - error: 読み込みに失敗した場合のエラー
//
// 使用例:
//
//	weights, err := model.LoadWeights("logit.json")
func LoadWeights(filename string) (*ModelWeights, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return LoadWeightsFromReader(file)
}

// SaveWeightsToWriter はModelWeightsをio.Writerに保存する
//
// パラメータ:
//   - weights: 保存する学習済みパラメータ
//   - w: 保存先のWriter
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
func SaveWeightsToWriter(weights *ModelWeights, w io.Writer) error {
	data, err := weights.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode model weights: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write model weights: %w", err)
	}
	return nil
}

// LoadWeightsFromReader はio.ReaderからModelWeightsを読み込む
//
// パラメータ:
//   - r: 読み込み元のReader
//
// 戻り値:
//   - *ModelWeights: 読み込まれた学習済みパラメータ
//   - error: 読み込みに失敗した場合のエラー
func LoadWeightsFromReader(r io.Reader) (*ModelWeights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model weights: %w", err)
	}

	weights := &ModelWeights{}
	if err := weights.FromJSON(data); err != nil {
		return nil, fmt.Errorf("failed to decode model weights: %w", err)
	}

	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model weights: %w", err)
	}

	return weights, nil
}
