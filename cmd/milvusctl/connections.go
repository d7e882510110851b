package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/poiesic/milvusprovider"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/registry"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const maskedSecret = "********"

type commands struct {
	extra []milvusprovider.Option
}

func (cmds *commands) open(c *cli.Context, opts ...milvusprovider.Option) (*milvusprovider.Provider, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	all := []milvusprovider.Option{milvusprovider.WithLogger(slog.Default())}
	all = append(all, opts...)
	all = append(all, cmds.extra...)

	p, err := milvusprovider.Open(dbPath, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	return p, nil
}

func (cmds *commands) addConnection(c *cli.Context) error {
	conn := &core.Connection{
		ID:          c.String("id"),
		URI:         c.String("uri"),
		Extra:       c.String("extra"),
		Description: c.String("description"),
	}
	// An empty flag value is an empty credential; only an omitted flag means none.
	if c.IsSet("login") {
		conn.Login = core.StringPtr(c.String("login"))
	}
	if c.IsSet("password") {
		conn.Password = core.StringPtr(c.String("password"))
	}
	if _, err := registry.DecodeExtras(conn.Extra); err != nil {
		return err
	}

	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.Connections().PutConnections(c.Context, conn); err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "saved connection %s\n", conn.ID)
	return nil
}

func (cmds *commands) getConnection(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("connection id is required")
	}

	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	conn, err := p.Connections().GetConnection(c.Context, id)
	if err != nil {
		return err
	}
	fc, err := registry.NewFileConnection(conn)
	if err != nil {
		return err
	}
	if fc.Password != nil {
		fc.Password = core.StringPtr(maskedSecret)
	}
	if _, ok := fc.Extra[registry.ExtraToken]; ok {
		fc.Extra[registry.ExtraToken] = maskedSecret
	}

	out, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func (cmds *commands) listConnections(c *cli.Context) error {
	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	conns, err := p.Connections().ListConnections(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tURI\tLOGIN\tDESCRIPTION")
	for _, conn := range conns {
		login := "-"
		if conn.Login != nil {
			login = *conn.Login
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", conn.ID, conn.URI, login, conn.Description)
	}
	return w.Flush()
}

func (cmds *commands) deleteConnections(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one connection id is required")
	}

	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Connections().DeleteConnections(c.Context, ids...); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %d connection(s)\n", len(ids))
	return nil
}

func (cmds *commands) importConnections(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("connections file is required")
	}

	conns, err := registry.LoadFile(path)
	if err != nil {
		return err
	}

	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.Connections().PutConnections(c.Context, conns...); err != nil {
		return fmt.Errorf("failed to save connections: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "imported %d connection(s)\n", len(conns))
	return nil
}

func (cmds *commands) exportConnections(c *cli.Context) error {
	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	conns, err := p.Connections().ListConnections(c.Context)
	if err != nil {
		return err
	}
	out, err := registry.MarshalFile(conns)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

type testResult struct {
	id  string
	err error
}

func (cmds *commands) testConnections(c *cli.Context) error {
	p, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer p.Close()

	var ids []string
	switch {
	case c.Bool("all"):
		conns, err := p.Connections().ListConnections(c.Context)
		if err != nil {
			return err
		}
		for _, conn := range conns {
			ids = append(ids, conn.ID)
		}
	case c.Args().First() != "":
		ids = []string{c.Args().First()}
	default:
		ids = []string{core.DefaultConnID}
	}

	var (
		mu      sync.Mutex
		results []testResult
	)
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(max(c.Int("concurrency"), 1))
	for _, id := range ids {
		g.Go(func() error {
			err := testConnection(ctx, p, id, c)
			mu.Lock()
			results = append(results, testResult{id: id, err: err})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].id < results[j].id })
	var failed []error
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(c.App.Writer, "%s\tFAILED\t%v\n", r.id, r.err)
			failed = append(failed, r.err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\tOK\n", r.id)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d connection(s) failed: %w", len(failed), len(results), errors.Join(failed...))
	}
	return nil
}

func testConnection(ctx context.Context, p *milvusprovider.Provider, id string, c *cli.Context) error {
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	h, err := p.NewHook(id)
	if err != nil {
		return err
	}
	if _, err := h.Client(ctx); err != nil {
		return err
	}
	return h.Close(ctx)
}
