package sqlite

const (
	upsertQuery = `
        INSERT INTO clips (
            short_code, video_id, title, thumbnail_url, embed_url,
            start_time, end_time, views, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(short_code) DO UPDATE SET
            video_id = excluded.video_id,
            title = excluded.title,
            thumbnail_url = excluded.thumbnail_url,
            embed_url = excluded.embed_url,
            start_time = excluded.start_time,
            end_time = excluded.end_time
    `

	getQuery = `
        SELECT short_code, video_id, title, thumbnail_url, embed_url,
               start_time, end_time, views, created_at
        FROM clips WHERE short_code = ?
    `

	incrementViewsQuery = `
        UPDATE clips SET views = views + 1 WHERE short_code = ?
    `
)
