package session

import (
	"fmt"
	"strings"

	"coldcase/internal/archive"
	"coldcase/internal/assistant"
	"coldcase/internal/briefing"
	"coldcase/internal/logging"
	"coldcase/internal/search"
)

const missingDate = "---- -- --"

func (e *Engine) help(t *turn, args []string) *CommandError {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	entries, err := helpEntries(topic)
	if err != nil {
		return err
	}
	t.entries = append(t.entries, entries...)
	return nil
}

// ListingRow formats a listing row the way the transcript shows it.
func ListingRow(r Row) string {
	return fmt.Sprintf("%-12s %-7s %s", r.Date, r.Tag, r.Name)
}

func (e *Engine) list(t *turn) *CommandError {
	children := t.dir.Children()
	if len(children) == 0 {
		t.add(KindInfo, "(directory is empty)")
		return nil
	}

	header := Row{Header: true, Date: "DATE", Tag: "TYPE", Name: "NAME (tab to select)"}
	t.entries = append(t.entries, Entry{Kind: KindSystem, Content: ListingRow(header), Row: &header})
	for _, child := range children {
		row := Row{Date: archive.DateOf(child), Tag: archive.TypeTag(child), Name: archive.NameOf(child)}
		if row.Date == "" {
			row.Date = missingDate
		}
		kind := KindInfo
		if _, ok := child.(*archive.Directory); ok {
			kind = KindSuccess
		}
		t.entries = append(t.entries, Entry{Kind: kind, Content: ListingRow(row), Row: &row})
	}
	return nil
}

func (e *Engine) changeDir(t *turn, args []string) *CommandError {
	if len(args) == 0 {
		return usage("cd")
	}
	target := args[0]

	switch target {
	case "..":
		if len(t.st.Path) == 0 {
			return fail(ErrPrecondition, "Access denied: already at root.")
		}
		t.st.Path = t.st.Path[:len(t.st.Path)-1]
		return nil
	case "/":
		t.st.Path = nil
		return nil
	}

	name, node, ok := t.dir.Lookup(target)
	if !ok {
		cerr := fail(ErrNotFound, "Directory not found: %s", target)
		if p, ok := archive.FindFilePath(e.arc.Root, target); ok {
			cerr.withHint("Hint: found a similar name at '/%s'. Is it a file?", p)
		}
		return cerr
	}
	if _, isDir := node.(*archive.Directory); !isDir {
		return fail(ErrInvalidTarget, "%s is not a directory.", name)
	}
	t.st.Path = append(t.st.Path, name)
	return nil
}

func (e *Engine) open(t *turn, args []string) *CommandError {
	if len(args) == 0 {
		return usage("open")
	}
	typed := args[0]

	name, ok := archive.ResolveFileName(t.dir, typed)
	if !ok {
		cerr := fail(ErrNotFound, "File not found: %s", typed)
		if p, ok := archive.FindFilePath(e.arc.Root, typed); ok {
			cerr.withHint("Hint: found it at '/%s'. Enter that directory first.", p)
		}
		return cerr
	}
	node, _ := t.dir.Child(name)

	switch n := node.(type) {
	case *archive.Directory:
		return fail(ErrInvalidTarget, "%s is a directory. Use 'cd' to enter it.", name)
	case *archive.Encrypted:
		secret, readable := n.Secret()
		if !readable {
			t.add(KindError, "Access denied: file is encrypted.")
			t.add(KindInfo, n.Preview)
			t.addf(KindSystem, "Use 'decrypt %s [password]' to unlock it.", name)
			return nil
		}
		t.addf(KindSuccess, "Opening encrypted file: %s...", name)
		t.add(KindInfo, secret)
		if n.SolvesCase() && !t.st.Solved {
			t.st.Solved = true
			logging.Session("session %s solved the case by opening %s", t.st.ID, name)
		}
	case *archive.Text:
		t.addf(KindSuccess, "Opening file: %s...", name)
		t.add(KindInfo, n.Body)
	}
	return nil
}

func (e *Engine) decrypt(t *turn, args []string) *CommandError {
	if len(args) < 2 {
		return usage("decrypt")
	}
	typed, password := args[0], args[1]

	name, ok := archive.ResolveFileName(t.dir, typed)
	if !ok {
		return fail(ErrNotFound, "File not found: %s", typed)
	}
	node, _ := t.dir.Child(name)
	enc, ok := node.(*archive.Encrypted)
	if !ok {
		return fail(ErrInvalidTarget, "%s is not an encrypted file.", name)
	}
	if !enc.Locked() {
		t.addf(KindInfo, "%s is already unlocked.", name)
		return nil
	}
	if !enc.Matches(password) {
		logging.SessionDebug("session %s: wrong password for %s", t.st.ID, name)
		return fail(ErrAuthFailure, "Access denied: wrong password.")
	}

	t.add(KindSystem, "Decrypting...")
	t.st.Busy = true
	t.pending = newDecryptTask(enc, name, password, e.opts.DecryptDelay, e.opts.Sleep)
	return nil
}

func (e *Engine) search(t *turn, args []string) *CommandError {
	if len(args) == 0 {
		return usage("search")
	}
	query := strings.Join(args, " ")
	t.addf(KindSystem, "Searching database: %q...", query)

	matches := search.Run(e.arc.Root, query)
	if len(matches) == 0 {
		t.add(KindInfo, "No matches found.")
		return nil
	}
	for _, m := range matches {
		t.add(KindSuccess, m.String())
	}
	return nil
}

func (e *Engine) ask(t *turn, args []string) *CommandError {
	if len(args) == 0 {
		return usage("ask")
	}
	if e.opts.Assistant == nil {
		return fail(ErrCollaborator, "Analysis assistant offline: no API key configured.")
	}

	question := strings.Join(args, " ")
	context := briefing.BuildBounded(e.arc.Root, e.opts.ContextLimit)
	req := assistant.Request{
		Question:          question,
		SystemInstruction: briefing.Instruction(e.arc.Case, context),
	}
	logging.APIDebug("session %s: asking with %d bytes of context", t.st.ID, len(context))

	t.st.Busy = true
	t.pending = newAskTask(e.opts.Assistant, req)
	return nil
}
