package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/leofalp/quickchat/core/session"
	"github.com/leofalp/quickchat/providers/ai"
)

/*
	##### CHAT #####
*/

type chatCmd struct {
	Continue string   `short:"c" placeholder:"ID" help:"Continue the conversation with this id or id prefix."`
	Prompt   []string `arg:"" optional:"" help:"Prompt to send. Reads prompts line by line from stdin when omitted."`
}

func (c *chatCmd) Run(app *App) error {
	if c.Continue != "" {
		conv, err := app.resolve(c.Continue)
		if err != nil {
			return err
		}
		if err := app.session.SelectConversation(conv.ID); err != nil {
			return err
		}
	}

	if len(c.Prompt) > 0 {
		return app.send(strings.Join(c.Prompt, " "))
	}
	return app.interactive()
}

// send submits prompt and prints the reply. A failed exchange prints the
// transcript error entry and exits with status 1.
func (a *App) send(prompt string) error {
	a.session.SetInput(prompt)
	turn, err := a.session.Submit(a.ctx)
	if err != nil {
		return a.explain(err)
	}

	reply, err := turn.Wait(a.ctx)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, reply.Content)
		return nil
	case reply.Content != "":
		fmt.Fprintln(a.errOut, reply.Content)
		return exitError{code: 1}
	default:
		return err
	}
}

func (a *App) interactive() error {
	st := a.session.State()
	fmt.Fprintf(a.errOut, "%s · %s (/new starts a conversation, /quit exits)\n", ai.Lookup(st.Provider).DisplayName, st.Model)

	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	failed := false
	for {
		fmt.Fprint(a.errOut, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			a.session.GoBack()
			continue
		}

		if err := a.send(line); err != nil {
			var exit exitError
			if !errors.As(err, &exit) {
				return err
			}
			failed = true
		}
		if a.ctx.Err() != nil {
			return a.ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed {
		return exitError{code: 1}
	}
	return nil
}

// explain turns a refused send into an actionable message.
func (a *App) explain(err error) error {
	var ce *session.ConfigurationError
	if errors.As(err, &ce) {
		a.session.DismissConfiguration()
		info := ai.Lookup(ce.Provider)
		return fmt.Errorf("%w\n%s, then run: quickchat key %s %s", err, info.HelpText, info.ID, info.Placeholder)
	}
	return err
}

/*
	##### CONVERSATIONS #####
*/

type lsCmd struct{}

func (c *lsCmd) Run(app *App) error {
	convs := app.session.Conversations()
	if len(convs) == 0 {
		fmt.Fprintln(app.errOut, "no conversations")
		return nil
	}
	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUPDATED\tMESSAGES\tTITLE")
	for _, conv := range convs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", shortID(conv.ID), conv.LastUpdated.Local().Format(time.DateTime), len(conv.Messages), conv.Title)
	}
	return w.Flush()
}

type showCmd struct {
	ID string `arg:"" help:"Conversation id or id prefix."`
}

func (c *showCmd) Run(app *App) error {
	conv, err := app.resolve(c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "# %s\n%s · updated %s\n", conv.Title, conv.ID, conv.LastUpdated.Local().Format(time.DateTime))
	for _, msg := range conv.Messages {
		fmt.Fprintf(app.out, "\n[%s] %s\n%s\n", msg.Role, msg.Timestamp.Local().Format(time.TimeOnly), msg.Content)
	}
	return nil
}

type rmCmd struct {
	IDs []string `arg:"" name:"id" help:"Conversation ids or id prefixes."`
}

func (c *rmCmd) Run(app *App) error {
	for _, ref := range c.IDs {
		conv, err := app.resolve(ref)
		if err != nil {
			return err
		}
		if err := app.session.DeleteConversation(app.ctx, conv.ID); err != nil {
			return err
		}
		fmt.Fprintf(app.errOut, "deleted %s %q\n", shortID(conv.ID), conv.Title)
	}
	return app.session.State().StorageErr
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

/*
	##### SETTINGS #####
*/

type modelsCmd struct{}

func (c *modelsCmd) Run(app *App) error {
	st := app.session.State()
	for _, id := range ai.Providers() {
		info := ai.Lookup(id)
		key := "no key"
		if st.Credentials.Has(id) {
			key = "key set"
		}
		fmt.Fprintf(app.out, "%s (%s, %s)\n", info.DisplayName, id, key)
		for _, model := range info.Models {
			marker := " "
			if id == st.Provider && model == st.Model {
				marker = "*"
			}
			fmt.Fprintf(app.out, "  %s %s\n", marker, model)
		}
	}
	return nil
}

type useCmd struct {
	Provider string `arg:"" help:"Provider id or display name."`
	Model    string `arg:"" optional:"" help:"Model; defaults to the provider's first model."`
}

func (c *useCmd) Run(app *App) error {
	id, err := ai.ParseProviderID(c.Provider)
	if err != nil {
		return err
	}
	if c.Model == "" {
		err = app.session.SelectProvider(app.ctx, id)
	} else {
		err = app.session.SelectModel(app.ctx, id, c.Model)
	}
	if err != nil {
		return err
	}

	st := app.session.State()
	fmt.Fprintf(app.errOut, "using %s · %s\n", ai.Lookup(st.Provider).DisplayName, st.Model)
	if !st.Configured() {
		fmt.Fprintf(app.errOut, "no API key set: %s\n", ai.Lookup(st.Provider).HelpText)
	}
	return nil
}

type keyCmd struct {
	Provider string `arg:"" help:"Provider id or display name."`
	Value    string `arg:"" optional:"" help:"API key. Read from stdin when omitted."`
	Clear    bool   `help:"Remove the stored key."`
}

func (c *keyCmd) Run(app *App) error {
	id, err := ai.ParseProviderID(c.Provider)
	if err != nil {
		return err
	}

	value := c.Value
	switch {
	case c.Clear:
		value = ""
	case value == "":
		fmt.Fprintf(app.errOut, "%s API key (%s): ", ai.Lookup(id).DisplayName, ai.Lookup(id).Placeholder)
		line, err := bufio.NewReader(app.in).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading API key: %w", err)
		}
		value = line
	}
	if strings.TrimSpace(value) == "" && !c.Clear {
		return errors.New("empty API key (use --clear to remove it)")
	}

	app.session.EditCredential(id, value)
	if err := app.session.SaveEdits(app.ctx); err != nil {
		return err
	}
	if c.Clear {
		fmt.Fprintf(app.errOut, "%s API key removed\n", ai.Lookup(id).DisplayName)
	} else {
		fmt.Fprintf(app.errOut, "%s API key saved\n", ai.Lookup(id).DisplayName)
	}
	return nil
}

type systemCmd struct {
	Prompt []string `arg:"" optional:"" help:"New system prompt. Prints the current one when omitted."`
	Clear  bool     `help:"Remove the system prompt."`
}

func (c *systemCmd) Run(app *App) error {
	if !c.Clear && len(c.Prompt) == 0 {
		if prompt := app.session.State().SystemPrompt; prompt != "" {
			fmt.Fprintln(app.out, prompt)
		}
		return nil
	}

	prompt := ""
	if !c.Clear {
		prompt = strings.Join(c.Prompt, " ")
	}
	app.session.EditSystemPrompt(prompt)
	return app.session.SaveEdits(app.ctx)
}
