package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/network"
	"github.com/drpcorg/propsync/props"
	"github.com/drpcorg/propsync/replica"
	"github.com/drpcorg/propsync/snapstore"
)

var HelpOpen = errors.New("open <dir>")

func (repl *REPL) CommandOpen(out io.Writer, args []string) (err error) {
	if len(args) != 1 {
		return HelpOpen
	}
	if repl.host != nil {
		return errors.New("a replica is open, close it first")
	}
	repl.store, err = snapstore.Open(args[0], repl.layouts, snapstore.Options{Logger: repl.log})
	if err != nil {
		return err
	}
	repl.host, err = replica.NewHost(replica.Options{
		Logger:     repl.log,
		Layouts:    repl.layouts,
		Store:      repl.store,
		Registerer: repl.metrics,
	})
	if err != nil {
		_ = repl.store.Close()
		repl.store = nil
		return err
	}
	repl.pebble = snapstore.NewCollector(repl.store)
	_ = repl.metrics.Register(repl.pebble)
	for _, c := range network.Collectors() {
		_ = repl.metrics.Register(c)
	}

	repl.srv = network.NewNet(repl.log, func(name string) (network.Handler, error) {
		o, err := repl.host.Join()
		if err != nil {
			return nil, err
		}
		return o.Link(), nil
	}, nil)
	repl.cli = network.NewNet(repl.log, func(name string) (network.Handler, error) {
		s := repl.host.Subscribe()
		repl.subs.Store(name, s)
		return s, nil
	}, func(name string, _ network.Handler) {
		repl.subs.Delete(name)
	})
	_, _ = fmt.Fprintf(out, "replica %s opened, %d layouts\n", args[0], len(repl.layouts.All()))
	return nil
}

func (repl *REPL) CommandClose(out io.Writer, args []string) error {
	if repl.host == nil {
		return nil
	}
	_ = repl.srv.Close()
	_ = repl.cli.Close()
	repl.srv, repl.cli = nil, nil
	repl.metrics.Unregister(repl.pebble)
	repl.host = nil
	err := repl.store.Close()
	repl.store = nil
	if err == nil {
		_, _ = fmt.Fprintln(out, "replica closed")
	}
	return err
}

func (repl *REPL) CommandHelp(out io.Writer, args []string) error {
	for _, help := range []error{
		HelpOpen, HelpLayout, HelpSpawn, HelpDespawn, HelpSet, HelpShow,
		HelpListen, HelpConnect, HelpDisconnect, HelpHTTP,
	} {
		_, _ = fmt.Fprintln(out, help.Error())
	}
	_, _ = fmt.Fprintln(out, "layouts | tick | list | verify | close | exit")
	return nil
}

var HelpLayout = errors.New("layout <id> <name> <kinds,of,component;next,component>")

func (repl *REPL) CommandLayout(out io.Writer, args []string) error {
	if len(args) != 3 {
		return HelpLayout
	}
	id, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return HelpLayout
	}
	l, err := entity.ParseLayout(byte(id), args[1], args[2])
	if err != nil {
		return err
	}
	if err = repl.layouts.Register(l); err != nil {
		return err
	}
	if repl.store != nil {
		if err = repl.store.SaveLayout(l); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, l.String())
	return nil
}

func (repl *REPL) CommandLayouts(out io.Writer, args []string) error {
	for _, l := range repl.layouts.All() {
		_, _ = fmt.Fprintln(out, l.String())
	}
	return nil
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

var HelpSpawn = errors.New("spawn <id> <layout>")

func (repl *REPL) CommandSpawn(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 2 {
		return HelpSpawn
	}
	id, err := parseID(args[0])
	if err != nil {
		return HelpSpawn
	}
	lid, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return HelpSpawn
	}
	l, err := repl.layouts.Get(byte(lid))
	if err != nil {
		return err
	}
	if _, err = repl.host.Spawn(id, l.ID, l.NewComponents()...); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%d spawned as %s\n", id, l.Name)
	return nil
}

var HelpDespawn = errors.New("despawn <id>")

func (repl *REPL) CommandDespawn(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 1 {
		return HelpDespawn
	}
	id, err := parseID(args[0])
	if err != nil {
		return HelpDespawn
	}
	return repl.host.Despawn(id)
}

var HelpSet = errors.New("set <id> <component> <field> <value>")

func (repl *REPL) CommandSet(out io.Writer, args []string) (err error) {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) < 4 {
		return HelpSet
	}
	id, err := parseID(args[0])
	if err != nil {
		return HelpSet
	}
	ci, err1 := strconv.Atoi(args[1])
	fi, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return HelpSet
	}
	e, ok := repl.host.Entity(id)
	if !ok {
		return replica.ErrEntityUnknown
	}
	e.Mutate(func(comps []entity.Component) {
		if ci < 0 || ci >= len(comps) {
			err = fmt.Errorf("%s has %d components", e.Layout.Name, len(comps))
			return
		}
		f, ok := comps[ci].(*entity.Fields)
		if !ok {
			err = errors.New("component is not editable")
			return
		}
		if fi < 0 || fi >= f.Schema().Len() {
			err = fmt.Errorf("component %d has %d fields", ci, f.Schema().Len())
			return
		}
		var v any
		if v, err = props.ParseValue(f.Schema().Kind(fi), strings.Join(args[3:], " ")); err != nil {
			return
		}
		err = f.Set(fi, v)
	})
	return
}

func (repl *REPL) CommandTick(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	_, _ = fmt.Fprintf(out, "%d deltas\n", repl.host.Tick())
	return nil
}

var HelpShow = errors.New("show <id>")

func (repl *REPL) CommandShow(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 1 {
		return HelpShow
	}
	id, err := parseID(args[0])
	if err != nil {
		return HelpShow
	}
	if e, ok := repl.host.Entity(id); ok {
		digest, _ := repl.host.Digest(id)
		_, _ = fmt.Fprintf(out, "%d %s live %016x\n", id, e.Layout.Name, digest)
		e.Mutate(func(comps []entity.Component) {
			printComponents(out, comps)
		})
		return nil
	}
	// not hosted: decode the stored snapshot
	var found bool
	err = repl.store.Each(func(m entity.Message, digest uint64) error {
		if m.ID != id {
			return nil
		}
		found = true
		l, err := repl.layouts.Get(m.Layout)
		if err != nil {
			return err
		}
		comps := l.NewComponents()
		if _, err = entity.Read(m.Reader(), comps, nil); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%d %s stored %016x\n", id, l.Name, digest)
		printComponents(out, comps)
		return nil
	})
	if err == nil && !found {
		err = replica.ErrEntityUnknown
	}
	return err
}

func printComponents(out io.Writer, comps []entity.Component) {
	for i, c := range comps {
		_, _ = fmt.Fprintf(out, "  %d %s", i, c.Schema().String())
		if f, ok := c.(*entity.Fields); ok {
			for _, v := range f.Values() {
				_, _ = fmt.Fprintf(out, " %v", v)
			}
		}
		_, _ = fmt.Fprintln(out)
	}
}

func (repl *REPL) CommandList(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	live := make(map[uint64]bool)
	for _, id := range repl.host.IDs() {
		e, ok := repl.host.Entity(id)
		if !ok {
			continue
		}
		digest, _ := repl.host.Digest(id)
		_, _ = fmt.Fprintf(out, "%d\t%s\t%016x\tlive\n", id, e.Layout.Name, digest)
		live[id] = true
	}
	return repl.store.Each(func(m entity.Message, digest uint64) error {
		if !live[m.ID] {
			_, _ = fmt.Fprintf(out, "%d\t%d\t%016x\tstored, %d bits\n", m.ID, m.Layout, digest, m.Bits)
		}
		return nil
	})
}

var HelpListen = errors.New("listen tcp://:1234 | ws://:8080/sync")

func (repl *REPL) CommandListen(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 1 {
		return HelpListen
	}
	if err := repl.srv.Listen(args[0]); err != nil {
		return err
	}
	if addr, ok := repl.srv.ListenAddr(args[0]); ok {
		_, _ = fmt.Fprintf(out, "listening on %s\n", addr)
	}
	return nil
}

var HelpConnect = errors.New("connect tcp://host:1234 | ws://host:8080/sync")

func (repl *REPL) CommandConnect(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 1 {
		return HelpConnect
	}
	return repl.cli.Connect(args[0])
}

var HelpDisconnect = errors.New("disconnect <address>")

func (repl *REPL) CommandDisconnect(out io.Writer, args []string) error {
	if repl.host == nil {
		return ErrNotOpen
	}
	if len(args) != 1 {
		return HelpDisconnect
	}
	if err := repl.cli.Disconnect(args[0]); err == nil {
		return nil
	}
	return repl.srv.Unlisten(args[0])
}

// CommandVerify sends digest reports of every held entity to every host
// this one is subscribed to.
func (repl *REPL) CommandVerify(out io.Writer, args []string) (err error) {
	if repl.host == nil {
		return ErrNotOpen
	}
	n := 0
	repl.subs.Range(func(name string, s *replica.Subscription) bool {
		if err = s.Verify(); err != nil {
			return false
		}
		n++
		return true
	})
	if err == nil {
		_, _ = fmt.Fprintf(out, "reported to %d hosts\n", n)
	}
	return
}
