/*
Package operation implements the emoji removal commands of deemoji.

	+-------------+
	|  Operation  |
	| (Core Logic)|
	+------+------+
	       |
	+------+------+------+
	|             |      |
	+----+----+ +-+----+ +--+-----+
	|Transform| |Backup| | Status |
	|  (text) | |      | | (I/O)  |
	+---------+ +------+ +--------+

🎯 Purpose:
- Cleans a whole document, line ranges of a document, or a stream
- Runs the batch over a resolved file set
- Makes sure every destructive write is preceded by a backup attempt

🔄 Flow (per file):
1. read the current content through status.FileManager
2. skip anything that is not UTF-8 text
3. transform; stop when nothing changed
4. back up the original content
5. write the cleaned content back and report progress

⚡ Backup failures are logged and do not stop the write unless
Options.BlockOnBackupFailure is set, in which case the file is left untouched
and counted as failed.

🔍 Example:

	op, err := operation.New(operation.Options{
		Transformer: text.New(ctx, text.Options{}),
		Files:       mgr,
		Backups:     backup.New("", mgr),
	})
	summary, err := op.Run(ctx, files)
*/
package operation
