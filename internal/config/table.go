package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type tableFile struct {
	Table *tableBlock `hcl:"table,block"`
}

// tableBlock uses pointers so attributes left out of the file keep their
// current value.
type tableBlock struct {
	Decks                 *int  `hcl:"decks,optional"`
	ReshuffleAt           *int  `hcl:"reshuffle_at,optional"`
	HitSoft17             *bool `hcl:"hit_soft_17,optional"`
	MaxHands              *int  `hcl:"max_hands,optional"`
	MaxSplits             *int  `hcl:"max_splits,optional"`
	DoubleAfterSplit      *bool `hcl:"double_after_split,optional"`
	MinBet                *int  `hcl:"min_bet,optional"`
	MaxBet                *int  `hcl:"max_bet,optional"`
	SplitNaturalsPayBonus *bool `hcl:"split_naturals_pay_bonus,optional"`
	DealerPaceMS          *int  `hcl:"dealer_pace_ms,optional"`
}

// loadTableFile applies a table block from an HCL file. A missing file is
// not an error.
func loadTableFile(filename string, cfg *Config) error {
	if filename == "" {
		return nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var tf tableFile
	diags = gohcl.DecodeBody(file.Body, nil, &tf)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if tf.Table == nil {
		return nil
	}

	t := tf.Table
	setInt(&cfg.Decks, t.Decks)
	setInt(&cfg.ReshuffleAt, t.ReshuffleAt)
	setBool(&cfg.HitSoft17, t.HitSoft17)
	setInt(&cfg.MaxHands, t.MaxHands)
	setInt(&cfg.MaxSplits, t.MaxSplits)
	setBool(&cfg.DoubleAfterSplit, t.DoubleAfterSplit)
	setInt(&cfg.MinBet, t.MinBet)
	setInt(&cfg.MaxBet, t.MaxBet)
	setBool(&cfg.SplitNaturalsPayBonus, t.SplitNaturalsPayBonus)
	setInt(&cfg.DealerPaceMS, t.DealerPaceMS)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
