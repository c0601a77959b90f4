package engine

import (
	"fmt"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"

	bridge "github.com/wippyai/sqlite-bridge"
)

// Func is the body of a registered scalar function. It receives the Host for
// the invocation's TLS plus the borrowed context and argument handles, all
// valid only until it returns.
type Func func(h *Host, ctx bridge.ContextHandle, args []bridge.ValueHandle)

var scalarFuncs = newRegistry()

// scalarTrampoline is the xFunc callback for every registered scalar; the
// user-data id selects the Go function.
func scalarTrampoline(tls *libc.TLS, ctx uintptr, argc int32, argv uintptr) {
	fn, _ := scalarFuncs.get(sqlite3.Xsqlite3_user_data(tls, ctx)).(Func)
	if fn == nil {
		sqlite3.Xsqlite3_result_error_code(tls, ctx, sqlite3.SQLITE_INTERNAL)
		return
	}
	args := make([]bridge.ValueHandle, argc)
	for i := int32(0); i < argc; i++ {
		args[i] = bridge.ValueHandle(*(*uintptr)(unsafe.Pointer(argv + uintptr(i)*unsafe.Sizeof(uintptr(0)))))
	}
	fn(New(tls), bridge.ContextHandle(ctx), args)
}

// Conn is one SQLite connection with its own thread-local state. A Conn is
// not safe for concurrent use.
type Conn struct {
	tls *libc.TLS
	db  uintptr
}

// Open opens or creates the database at path. Use ":memory:" for a private
// in-memory database.
func Open(path string) (*Conn, error) {
	tls := libc.NewTLS()

	slot := libc.Xmalloc(tls, types.Size_t(unsafe.Sizeof(uintptr(0))))
	if slot == 0 {
		tls.Close()
		return nil, fmt.Errorf("open %s: out of memory", path)
	}
	defer libc.Xfree(tls, slot)

	cpath, err := libc.CString(path)
	if err != nil {
		tls.Close()
		return nil, err
	}
	defer libc.Xfree(tls, cpath)

	rc := sqlite3.Xsqlite3_open_v2(tls, cpath, slot,
		sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE, 0)
	db := *(*uintptr)(unsafe.Pointer(slot))
	if rc != sqlite3.SQLITE_OK {
		sqlite3.Xsqlite3_close_v2(tls, db)
		tls.Close()
		return nil, fmt.Errorf("open %s: rc=%d", path, rc)
	}

	debugf("opened %s", path)
	return &Conn{tls: tls, db: db}, nil
}

// Close releases the connection and its thread-local state.
func (c *Conn) Close() error {
	rc := sqlite3.Xsqlite3_close_v2(c.tls, c.db)
	c.tls.Close()
	if rc != sqlite3.SQLITE_OK {
		return fmt.Errorf("close: rc=%d", rc)
	}
	return nil
}

// Host returns the boundary host for this connection's TLS, for use inside
// registered functions or engine-allocation helpers.
func (c *Conn) Host() *Host { return New(c.tls) }

// RegisterScalar registers fn as a scalar SQL function. nArg of -1 makes the
// function variadic. Deterministic functions may be factored out of loops by
// the query planner, so only pure functions should claim it.
func (c *Conn) RegisterScalar(name string, nArg int32, deterministic bool, fn Func) error {
	textrep := int32(sqlite3.SQLITE_UTF8)
	if deterministic {
		textrep |= sqlite3.SQLITE_DETERMINISTIC
	}

	id := scalarFuncs.put(fn)
	rc := sqlite3.Xsqlite3_create_function_v2(c.tls, c.db, internCString(name), nArg,
		textrep, id, cFuncPointer(scalarTrampoline), 0, 0, 0)
	if rc != sqlite3.SQLITE_OK {
		scalarFuncs.take(id)
		return fmt.Errorf("register %s: %s", name, c.errmsg())
	}
	return nil
}

// Exec runs one statement that produces no rows.
func (c *Conn) Exec(sql string) error {
	stmt, err := c.prepare(sql)
	if err != nil {
		return err
	}
	defer sqlite3.Xsqlite3_finalize(c.tls, stmt)

	if rc := sqlite3.Xsqlite3_step(c.tls, stmt); rc != sqlite3.SQLITE_DONE && rc != sqlite3.SQLITE_ROW {
		return fmt.Errorf("exec: %s", c.errmsg())
	}
	return nil
}

// Query runs one statement and streams each row's columns, rendered as text,
// to row. Returning false from row stops the scan early.
func (c *Conn) Query(sql string, row func(cols []string) bool) error {
	stmt, err := c.prepare(sql)
	if err != nil {
		return err
	}
	defer sqlite3.Xsqlite3_finalize(c.tls, stmt)

	ncol := sqlite3.Xsqlite3_column_count(c.tls, stmt)
	for {
		switch rc := sqlite3.Xsqlite3_step(c.tls, stmt); rc {
		case sqlite3.SQLITE_ROW:
			cols := make([]string, ncol)
			for i := int32(0); i < ncol; i++ {
				cols[i] = c.columnText(stmt, i)
			}
			if !row(cols) {
				return nil
			}
		case sqlite3.SQLITE_DONE:
			return nil
		default:
			return fmt.Errorf("query: %s", c.errmsg())
		}
	}
}

// Columns reports the column names of sql without running it.
func (c *Conn) Columns(sql string) ([]string, error) {
	stmt, err := c.prepare(sql)
	if err != nil {
		return nil, err
	}
	defer sqlite3.Xsqlite3_finalize(c.tls, stmt)

	ncol := sqlite3.Xsqlite3_column_count(c.tls, stmt)
	names := make([]string, ncol)
	for i := int32(0); i < ncol; i++ {
		names[i] = libc.GoString(sqlite3.Xsqlite3_column_name(c.tls, stmt, i))
	}
	return names, nil
}

func (c *Conn) prepare(sql string) (uintptr, error) {
	csql, err := libc.CString(sql)
	if err != nil {
		return 0, err
	}
	defer libc.Xfree(c.tls, csql)

	slot := libc.Xmalloc(c.tls, types.Size_t(unsafe.Sizeof(uintptr(0))))
	if slot == 0 {
		return 0, fmt.Errorf("prepare: out of memory")
	}
	defer libc.Xfree(c.tls, slot)

	if rc := sqlite3.Xsqlite3_prepare_v2(c.tls, c.db, csql, -1, slot, 0); rc != sqlite3.SQLITE_OK {
		return 0, fmt.Errorf("prepare: %s", c.errmsg())
	}
	return *(*uintptr)(unsafe.Pointer(slot)), nil
}

func (c *Conn) columnText(stmt uintptr, i int32) string {
	p := sqlite3.Xsqlite3_column_text(c.tls, stmt, i)
	if p == 0 {
		return "NULL"
	}
	n := sqlite3.Xsqlite3_column_bytes(c.tls, stmt, i)
	return string(libc.GoBytes(p, int(n)))
}

func (c *Conn) errmsg() string {
	return libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
}
