package visits

import (
	"sort"
	"time"
)

// YearMonth identifica un mes del calendario.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// First es el día 1 del mes (UTC).
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last es el último día del mes (UTC).
func (ym YearMonth) Last() time.Time {
	return ym.First().AddDate(0, 1, -1)
}

func DaysIn(ym YearMonth) int {
	return ym.Last().Day()
}

// Cell es una celda del grid. Las celdas en blanco tienen Day == 0.
type Cell struct {
	Day    int
	Date   string
	Visits []Visit
}

func (c Cell) Blank() bool { return c.Day == 0 }

// MonthGrid: semana arranca en domingo.
type MonthGrid struct {
	Month         YearMonth
	LeadingBlanks int
	Cells         []Cell
	Prev          YearMonth
	Next          YearMonth
}

// BuildMonthGrid arma LeadingBlanks celdas vacías (weekday del día 1) seguidas
// de una celda por día. Cada visita del mes queda en la celda de su fecha,
// ordenadas por hora de inicio; las de otros meses se ignoran.
func BuildMonthGrid(ym YearMonth, visits []Visit) MonthGrid {
	first := ym.First()
	blanks := int(first.Weekday())
	days := DaysIn(ym)

	cells := make([]Cell, blanks, blanks+days)
	byDay := make(map[int][]Visit, days)
	for _, v := range visits {
		y, m, d := v.Date.Date()
		if y != ym.Year || m != ym.Month {
			continue
		}
		byDay[d] = append(byDay[d], v)
	}

	for d := 1; d <= days; d++ {
		vs := byDay[d]
		sortByStart(vs)
		if vs == nil {
			vs = []Visit{}
		}
		cells = append(cells, Cell{
			Day:    d,
			Date:   time.Date(ym.Year, ym.Month, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Visits: vs,
		})
	}

	return MonthGrid{
		Month:         ym,
		LeadingBlanks: blanks,
		Cells:         cells,
		Prev:          ym.Prev(),
		Next:          ym.Next(),
	}
}

func sortByStart(vs []Visit) {
	sort.SliceStable(vs, func(i, j int) bool {
		if !vs[i].Date.Equal(vs[j].Date) {
			return vs[i].Date.Before(vs[j].Date)
		}
		return vs[i].StartTime < vs[j].StartTime
	})
}
