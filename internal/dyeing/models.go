package dyeing

import "time"

type DBProgram struct {
	ID          int64      `db:"program_id" json:"id"`
	DesignCode  string     `db:"design_code" json:"design_code"`
	Colour      string     `db:"colour" json:"colour"`
	TotalTakas  int        `db:"total_takas" json:"total_takas"`
	Remark      string     `db:"remark" json:"remark"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
}

type DBReceipt struct {
	ID        int64     `db:"receipt_id" json:"id"`
	ProgramID int64     `db:"program_id" json:"program_id"`
	Takas     int       `db:"takas" json:"takas"`
	Date      time.Time `db:"received_on" json:"date"`
}

// ResponseProgram carries a program together with its receipts and the
// derived pending count.
type ResponseProgram struct {
	Program  DBProgram   `json:"program"`
	Receipts []DBReceipt `json:"receipts"`
	Pending  int         `json:"pending"`
}
