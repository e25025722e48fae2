package model

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

// Format はアーティファクトのエンコーディング
type Format string

const (
	// FormatJSON は人間が読めるJSON形式（配布用のデフォルト）
	FormatJSON Format = "json"
	// FormatGob はGoのgob形式
	FormatGob Format = "gob"
)

// FormatFromPath はファイル拡張子からフォーマットを判定する
//
// .json → FormatJSON, .gob → FormatGob。その他はエラー。
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".gob":
		return FormatGob, nil
	default:
		return "", errors.NewValueError("model.FormatFromPath", "unsupported artifact extension: "+filepath.Ext(path))
	}
}

// Save はアーティファクトをファイルに保存する
//
// パラメータ:
//   - path: 保存先のファイルパス（拡張子でフォーマットを決定）
//   - v: 保存する値（ScalerParams, Architecture など）
//
// 使用例:
//
//	err := model.Save("models/scaler.json", scaler.Params())
func Save(path string, v interface{}) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveToWriter(v, file, format)
}

// Load はファイルからアーティファクトを読み込む
//
// パラメータ:
//   - path: 読み込み元のファイルパス
//   - v: 読み込み先（ポインタ）
func Load(path string, v interface{}) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadFromReader(v, file, format)
}

// SaveToWriter はアーティファクトをio.Writerに保存する
func SaveToWriter(v interface{}, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode artifact")
		}
	case FormatGob:
		if err := gob.NewEncoder(w).Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode artifact")
		}
	default:
		return errors.NewValueError("model.SaveToWriter", "unknown format "+string(format))
	}
	return nil
}

// LoadFromReader はio.Readerからアーティファクトを読み込む
//
// JSONの場合、未知のフィールドはエラーにする（別モデルの取り違え防止）。
// v が Artifact を実装していればデコード後に Validate を呼ぶ。
func LoadFromReader(v interface{}, r io.Reader, format Format) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(err, "failed to decode artifact")
		}
	case FormatGob:
		if err := gob.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(err, "failed to decode artifact")
		}
	default:
		return errors.NewValueError("model.LoadFromReader", "unknown format "+string(format))
	}
	if a, ok := v.(Artifact); ok {
		return a.Validate()
	}
	return nil
}
