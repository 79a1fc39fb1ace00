package components

const (
	CardHeight        = 4  // border(2) + title + detail line
	MinColumnWidth    = 28 // narrower columns scroll horizontally
	cardTitleMaxWidth = 40 // title runes before truncation
	columnChrome      = 4  // top border + header + indicator + bottom border

	EmptyColumnText = "Sin registros"
	BusyBadgeText   = "try again"
	UpdatingText    = "saving"
)
