// Package strategy holds the textbook multi-deck basic strategy used to
// grade player decisions.
package strategy

import "highrollers/internal/game"

// Chart cells, one per dealer upcard 2..10 then ace:
//
//	H hit, S stand, P split
//	D double, otherwise hit
//	d double, otherwise stand
//	p split when doubling after a split is allowed, otherwise hit
type row string

var hard = map[int]row{
	9:  "HDDDDHHHHH",
	10: "DDDDDDDDHH",
	11: "DDDDDDDDDH",
	12: "HHSSSHHHHH",
	13: "SSSSSHHHHH",
	14: "SSSSSHHHHH",
	15: "SSSSSHHHHH",
	16: "SSSSSHHHHH",
}

var soft = map[int]row{
	12: "HHHHHHHHHH",
	13: "HHHDDHHHHH",
	14: "HHHDDHHHHH",
	15: "HHDDDHHHHH",
	16: "HHDDDHHHHH",
	17: "HDDDDHHHHH",
	18: "SddddSSHHH",
	19: "SSSSSSSSSS",
}

// Dealer hits soft 17: a few cells get more aggressive.
var hardH17 = map[int]row{
	11: "DDDDDDDDDD",
}

var softH17 = map[int]row{
	18: "dddddSSHHH",
	19: "SSSSdSSSSS",
}

// pairs is keyed by pip value. Fives play as a hard ten.
var pairs = map[int]row{
	1:  "PPPPPPPPPP",
	2:  "ppPPPPHHHH",
	3:  "ppPPPPHHHH",
	4:  "HHHppHHHHH",
	6:  "pPPPPHHHHH",
	7:  "PPPPPPHHHH",
	8:  "PPPPPPPPPP",
	9:  "PPPPPSPPSS",
	10: "SSSSSSSSSS",
}

// Basic implements game.Advisor. The zero value is ready to use.
type Basic struct{}

var _ game.Advisor = Basic{}

func (Basic) Recommend(s game.Situation) game.Action {
	col := column(s.DealerUpcard)
	total, isSoft := evaluate(s.PlayerPips)
	if total >= 21 || col < 0 {
		return game.Stand
	}

	canDouble := s.FirstAction && (s.HandCount <= 1 || s.Rules.DoubleAfterSplit)
	canSplit := s.FirstAction && len(s.PlayerPips) == 2 &&
		s.PlayerPips[0] == s.PlayerPips[1] &&
		s.HandCount < s.Rules.MaxHands &&
		s.HandCount-1 < s.Rules.MaxSplits

	if canSplit {
		if r, ok := pairs[s.PlayerPips[0]]; ok {
			switch r[col] {
			case 'P':
				return game.Split
			case 'p':
				if s.Rules.DoubleAfterSplit {
					return game.Split
				}
				// without DAS these pairs play as their total
			default:
				return play(r[col], canDouble)
			}
		}
	}

	var r row
	var ok bool
	switch {
	case isSoft:
		r, ok = lookup(soft, softH17, total, s.Rules.HitSoft17)
		if !ok {
			return game.Stand
		}
	case total <= 8:
		return game.Hit
	case total >= 17:
		return game.Stand
	default:
		r, _ = lookup(hard, hardH17, total, s.Rules.HitSoft17)
	}
	return play(r[col], canDouble)
}

func lookup(base, h17 map[int]row, total int, hitSoft17 bool) (row, bool) {
	if hitSoft17 {
		if r, ok := h17[total]; ok {
			return r, true
		}
	}
	r, ok := base[total]
	return r, ok
}

func play(cell byte, canDouble bool) game.Action {
	switch cell {
	case 'S':
		return game.Stand
	case 'D':
		if canDouble {
			return game.Double
		}
		return game.Hit
	case 'd':
		if canDouble {
			return game.Double
		}
		return game.Stand
	}
	return game.Hit
}

// column maps an upcard pip (ace is 1) to a chart column.
func column(up int) int {
	switch {
	case up == 1:
		return 9
	case up >= 2 && up <= 10:
		return up - 2
	}
	return -1
}

// evaluate totals pip values, counting one ace as 11 when that stays at or
// under 21.
func evaluate(pips []int) (total int, soft bool) {
	ace := false
	for _, p := range pips {
		total += p
		if p == 1 {
			ace = true
		}
	}
	if ace && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}
