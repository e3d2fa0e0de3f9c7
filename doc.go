// Copyright (c) 2024 The gobolt Authors. All rights reserved.

/*
Package gobolt reads query results delivered as a tab separated text stream.

A stream starts with two header lines, the column names and the column type
tags, followed by one line per row. Fields are separated by a tab, rows end
with a newline and the backslash escapes either of them. \N stands for null.

	id	name	tags
	int64	nullable(text)	array(text)
	1	one	{a,b}
	2	\N	{}

Open reads the header and returns a Cursor positioned before the first row:

	c, err := gobolt.Open(ctx, r, gobolt.WithLocation(loc))
	if err != nil {
		return err
	}
	defer c.Close()
	for {
		ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		id, err := c.Int64ByName("id")
		...
	}

Typed accessors convert between compatible types, report null as the zero
value and let WasNull tell the two apart. Naive temporal values are read in
the calendar passed to the accessor, the cursor's time zone otherwise; values
of zoned types keep the offset they were sent with.

Every failure is a *CursorError. Compare it with errors.Is against ErrFormat,
ErrUnsupportedType, ErrValueFormat, ErrState, ErrLookup or ErrStream.

Settings may also come from the [cursor] section of a TOML file, see
LoadConfig. Compressed streams (gzip, zstd, lz4) are decompressed on the fly.
*/
package gobolt
